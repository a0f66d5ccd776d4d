package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stevemurr/negocio-server/model"
	"github.com/stevemurr/negocio-server/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sale(fecha, producto string, monto float64) model.Sale {
	return model.Sale{
		Fecha:         fecha,
		Cliente:       "Mostrador",
		Producto:      producto,
		Monto:         model.NewAmount(monto),
		MetodoPago:    "efectivo",
		FechaRegistro: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
	}
}

func expense(fecha, categoria string, monto float64) model.Expense {
	return model.Expense{
		Fecha:         fecha,
		Categoria:     categoria,
		Descripcion:   "compra",
		Monto:         model.NewAmount(monto),
		FechaRegistro: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
	}
}

func entry(dia, tiempo string, opcion int, nombre string) model.MenuEntry {
	return model.MenuEntry{
		MenuKey: model.MenuKey{Dia: dia, Tiempo: tiempo, Opcion: opcion},
		Dish:    model.Dish{Nombre: nombre},
	}
}

// runStoreTests runs a common test suite against any Store implementation.
// The store must start empty.
func runStoreTests(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		sales, err := s.ListSales(ctx)
		require.NoError(t, err)
		assert.Empty(t, sales)

		expenses, err := s.ListExpenses(ctx)
		require.NoError(t, err)
		assert.Empty(t, expenses)

		menu, err := s.ListMenu(ctx)
		require.NoError(t, err)
		assert.Empty(t, menu)
	})

	var firstSale int64
	t.Run("InsertSale assigns ids", func(t *testing.T) {
		a, err := s.InsertSale(ctx, sale("2024-01-01", "Comida corrida", 50))
		require.NoError(t, err)
		b, err := s.InsertSale(ctx, sale("2024-01-03", "Agua", 12.5))
		require.NoError(t, err)
		c, err := s.InsertSale(ctx, sale("2024-01-02", "Postre", 20))
		require.NoError(t, err)

		assert.NotZero(t, a.ID)
		assert.NotEqual(t, a.ID, b.ID)
		assert.NotEqual(t, b.ID, c.ID)
		firstSale = a.ID
	})

	t.Run("ListSales newest first", func(t *testing.T) {
		sales, err := s.ListSales(ctx)
		require.NoError(t, err)
		require.Len(t, sales, 3)
		assert.Equal(t, "2024-01-03", sales[0].Fecha)
		assert.Equal(t, "2024-01-02", sales[1].Fecha)
		assert.Equal(t, "2024-01-01", sales[2].Fecha)

		assert.Equal(t, "12.5", sales[0].Monto.String())
		assert.Equal(t, "Agua", sales[0].Producto)
		assert.Equal(t, "efectivo", sales[0].MetodoPago)
		assert.True(t, sales[0].FechaRegistro.Equal(time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)))
	})

	t.Run("same fecha orders by id desc", func(t *testing.T) {
		later, err := s.InsertSale(ctx, sale("2024-01-01", "Refresco", 15))
		require.NoError(t, err)
		sales, err := s.ListSales(ctx)
		require.NoError(t, err)
		require.Len(t, sales, 4)
		assert.Equal(t, later.ID, sales[2].ID)
		assert.Equal(t, firstSale, sales[3].ID)
	})

	t.Run("DeleteSale", func(t *testing.T) {
		existed, err := s.DeleteSale(ctx, firstSale)
		require.NoError(t, err)
		assert.True(t, existed)

		existed, err = s.DeleteSale(ctx, firstSale)
		require.NoError(t, err)
		assert.False(t, existed)

		sales, err := s.ListSales(ctx)
		require.NoError(t, err)
		assert.Len(t, sales, 3)
	})

	t.Run("expenses", func(t *testing.T) {
		a, err := s.InsertExpense(ctx, expense("2024-01-02", "Insumos", 20))
		require.NoError(t, err)
		_, err = s.InsertExpense(ctx, expense("2024-01-05", "Gas", 300))
		require.NoError(t, err)

		expenses, err := s.ListExpenses(ctx)
		require.NoError(t, err)
		require.Len(t, expenses, 2)
		assert.Equal(t, "Gas", expenses[0].Categoria)
		assert.Equal(t, "300", expenses[0].Monto.String())

		existed, err := s.DeleteExpense(ctx, a.ID)
		require.NoError(t, err)
		assert.True(t, existed)
		existed, err = s.DeleteExpense(ctx, a.ID)
		require.NoError(t, err)
		assert.False(t, existed)
	})

	t.Run("menu upsert overwrites slot", func(t *testing.T) {
		require.NoError(t, s.UpsertMenuEntry(ctx, entry("Lunes", model.CourseSoup, 1, "Sopa de fideo")))
		require.NoError(t, s.UpsertMenuEntry(ctx, entry("Lunes", model.CourseSoup, 1, "Crema de elote")))
		require.NoError(t, s.UpsertMenuEntry(ctx, entry("Lunes", model.CourseMain, 2, "Milanesa")))

		menu, err := s.ListMenu(ctx)
		require.NoError(t, err)
		require.Len(t, menu, 2)

		m := model.BuildMenu(menu)
		dish, ok := m.Lookup(model.MenuKey{Dia: "Lunes", Tiempo: model.CourseSoup, Opcion: 1})
		require.True(t, ok)
		assert.Equal(t, "Crema de elote", dish.Nombre)
	})

	t.Run("menu delete", func(t *testing.T) {
		k := model.MenuKey{Dia: "Lunes", Tiempo: model.CourseMain, Opcion: 2}
		existed, err := s.DeleteMenuEntry(ctx, k)
		require.NoError(t, err)
		assert.True(t, existed)

		existed, err = s.DeleteMenuEntry(ctx, k)
		require.NoError(t, err)
		assert.False(t, existed)

		existed, err = s.DeleteMenuEntry(ctx, model.MenuKey{Dia: "Martes", Tiempo: model.CourseSoup, Opcion: 1})
		require.NoError(t, err)
		assert.False(t, existed)
	})

	t.Run("Dump", func(t *testing.T) {
		ds, err := s.Dump(ctx)
		require.NoError(t, err)
		assert.Len(t, ds.Ventas, 3)
		assert.Len(t, ds.Gastos, 1)
		_, ok := ds.MenuComidaCorrida.Lookup(model.MenuKey{Dia: "Lunes", Tiempo: model.CourseSoup, Opcion: 1})
		assert.True(t, ok)
	})

	t.Run("Replace swaps everything", func(t *testing.T) {
		next := model.NewDataset()
		next.Ventas = []model.Sale{sale("2023-12-31", "Cena", 80), sale("2023-12-30", "Desayuno", 40)}
		next.MenuComidaCorrida.Set(entry("Viernes", model.CourseDessert, 1, "Flan"))
		require.NoError(t, s.Replace(ctx, next))

		sales, err := s.ListSales(ctx)
		require.NoError(t, err)
		require.Len(t, sales, 2)
		assert.Equal(t, "Cena", sales[0].Producto)
		assert.Equal(t, "Desayuno", sales[1].Producto)
		assert.NotZero(t, sales[0].ID)
		assert.NotEqual(t, sales[0].ID, sales[1].ID)

		expenses, err := s.ListExpenses(ctx)
		require.NoError(t, err)
		assert.Empty(t, expenses)

		menu, err := s.ListMenu(ctx)
		require.NoError(t, err)
		require.Len(t, menu, 1)
		assert.Equal(t, "Flan", menu[0].Nombre)
	})

	t.Run("Replace with empty dataset", func(t *testing.T) {
		require.NoError(t, s.Replace(ctx, model.NewDataset()))
		ds, err := s.Dump(ctx)
		require.NoError(t, err)
		assert.Empty(t, ds.Ventas)
		assert.Empty(t, ds.Gastos)
		assert.Empty(t, ds.MenuComidaCorrida.Entries())
	})
}

func TestMemoryStore(t *testing.T) {
	s := store.NewMemoryStore()
	runStoreTests(t, s)
}

func TestJsonFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewJsonFileStore(dir)
	require.NoError(t, err)
	runStoreTests(t, s)
}

func TestSqliteStore(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewSqliteStore(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	defer s.Close()
	runStoreTests(t, s)
}

// MySQL and PostgreSQL run only when a disposable database is provided.
func TestMySQLStore(t *testing.T) {
	dsn := os.Getenv("NEGOCIO_MYSQL_DSN")
	if dsn == "" {
		t.Skip("NEGOCIO_MYSQL_DSN not set")
	}
	s, err := store.NewMySQLStore(dsn)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Replace(context.Background(), model.NewDataset()))
	runStoreTests(t, s)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("NEGOCIO_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("NEGOCIO_POSTGRES_DSN not set")
	}
	s, err := store.NewPostgresStore(dsn, true)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Replace(context.Background(), model.NewDataset()))
	runStoreTests(t, s)
}

func TestDocumentReplaceKeepsIDs(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	next := model.NewDataset()
	kept := sale("2024-02-01", "Comida", 50)
	kept.ID = 7
	next.Ventas = []model.Sale{kept, sale("2024-02-02", "Agua", 10)}
	require.NoError(t, s.Replace(ctx, next))

	sales, err := s.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, int64(7), sales[1].ID)
	assert.Greater(t, sales[0].ID, int64(7))

	created, err := s.InsertSale(ctx, sale("2024-02-03", "Postre", 20))
	require.NoError(t, err)
	assert.Greater(t, created.ID, sales[0].ID)
}

func TestDocumentReplaceKeepsEmptyDays(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	require.NoError(t, s.UpsertMenuEntry(ctx, entry("Martes", model.CourseSoup, 1, "Consomé")))
	_, err := s.DeleteMenuEntry(ctx, model.MenuKey{Dia: "Martes", Tiempo: model.CourseSoup, Opcion: 1})
	require.NoError(t, err)

	ds, err := s.Dump(ctx)
	require.NoError(t, err)
	require.Contains(t, ds.MenuComidaCorrida, "Martes")
	assert.Len(t, ds.MenuComidaCorrida["Martes"], 3)

	require.NoError(t, s.Replace(ctx, ds))
	ds, err = s.Dump(ctx)
	require.NoError(t, err)
	assert.Contains(t, ds.MenuComidaCorrida, "Martes")
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	_, err := s.InsertSale(ctx, sale("2024-01-01", "Comida", 50))
	require.NoError(t, err)

	ds, err := s.Dump(ctx)
	require.NoError(t, err)
	ds.Ventas[0].Producto = "changed"

	sales, err := s.ListSales(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Comida", sales[0].Producto)
}

func TestJsonFileStoreCreatesDocument(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s, err := store.NewJsonFileStore(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `{"ventas":[],"gastos":[],"menuComidaCorrida":{}}`, string(data))
}

func TestJsonFileStorePersists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := store.NewJsonFileStore(dir)
	require.NoError(t, err)
	created, err := s.InsertSale(ctx, sale("2024-01-01", "Comida", 50))
	require.NoError(t, err)

	reopened, err := store.NewJsonFileStore(dir)
	require.NoError(t, err)
	sales, err := reopened.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, created.ID, sales[0].ID)
	assert.Equal(t, "50", sales[0].Monto.String())
}

func TestJsonFileStoreLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := store.NewJsonFileStore(dir)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := s.InsertExpense(ctx, expense("2024-01-01", "Gas", float64(i)))
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, store.DatabaseFile, entries[0].Name())
}

func TestJsonFileStoreCorruptDocument(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := store.NewJsonFileStore(dir)
	require.NoError(t, err)

	corrupt := []byte(`{"ventas": [`)
	require.NoError(t, os.WriteFile(s.Path(), corrupt, 0o644))

	_, err = s.ListSales(ctx)
	assert.Error(t, err)

	_, err = s.InsertSale(ctx, sale("2024-01-01", "Comida", 50))
	assert.Error(t, err)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, corrupt, data, "a failed load must not overwrite the document")
}

func TestJsonFileStoreReadsLegacyDocument(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	legacy := `{
		"ventas": [{"id": 1704067200000, "fecha": "2024-01-01", "cliente": "Ana", "producto": "Comida", "monto": "50", "metodoPago": "efectivo", "fechaRegistro": "2024-01-01T12:00:00Z"}],
		"gastos": [{"id": 1704067200001, "fecha": "2024-01-01", "categoria": "Gas", "descripcion": "tanque", "monto": null, "fechaRegistro": "2024-01-01T12:00:00Z"}]
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, store.DatabaseFile), []byte(legacy), 0o644))

	s, err := store.NewJsonFileStore(dir)
	require.NoError(t, err)

	sales, err := s.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "50", sales[0].Monto.String())

	expenses, err := s.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.True(t, expenses[0].Monto.IsZero())

	menu, err := s.ListMenu(ctx)
	require.NoError(t, err)
	assert.Empty(t, menu)
}

func TestSqliteReplaceRollsBack(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewSqliteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.InsertSale(ctx, sale("2024-01-01", "Comida", 50))
	require.NoError(t, err)

	bad := model.NewDataset()
	bad.Ventas = []model.Sale{sale("2024-01-02", "Agua", 10), sale("2024-01-03", "Error", -5)}
	assert.Error(t, s.Replace(ctx, bad))

	sales, err := s.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "Comida", sales[0].Producto)
}

func TestSqliteReplaceKeepsRelativeOrder(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewSqliteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer s.Close()

	next := model.NewDataset()
	a, b := sale("2024-03-01", "primero", 1), sale("2024-03-01", "segundo", 2)
	a.ID, b.ID = 100, 200
	next.Ventas = []model.Sale{a, b}
	require.NoError(t, s.Replace(ctx, next))

	sales, err := s.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, "segundo", sales[0].Producto)
	assert.Equal(t, "primero", sales[1].Producto)
}

func TestFactory(t *testing.T) {
	dir := t.TempDir()

	for _, backend := range []string{"json", "sqlite", "memory", ""} {
		t.Run(backend, func(t *testing.T) {
			s, err := store.New(store.Options{Backend: backend, DataDir: filepath.Join(dir, backend)})
			require.NoError(t, err)
			defer s.Close()
		})
	}

	t.Run("sqlite file", func(t *testing.T) {
		sub := filepath.Join(dir, "sqlite-file")
		s, err := store.New(store.Options{Backend: "sqlite", DataDir: sub})
		require.NoError(t, err)
		defer s.Close()
		_, err = os.Stat(filepath.Join(sub, store.SqliteFile))
		assert.NoError(t, err)
	})

	t.Run("missing dsn", func(t *testing.T) {
		for _, backend := range []string{"mysql", "postgres"} {
			_, err := store.New(store.Options{Backend: backend})
			assert.Error(t, err, backend)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := store.New(store.Options{Backend: "redis", DataDir: dir})
		assert.Error(t, err)
	})
}
