package store

import (
	"context"
	"sync"
	"time"

	"github.com/stevemurr/negocio-server/model"
)

// documentStore implements Store over a whole-dataset load/save pair. Every
// mutation loads the dataset, changes it in memory and saves it back; the
// mutex serializes those cycles within the process.
type documentStore struct {
	mu   sync.RWMutex
	load func() (*model.Dataset, error)
	save func(*model.Dataset) error
	now  func() time.Time
}

func (d *documentStore) view(fn func(*model.Dataset)) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ds, err := d.load()
	if err != nil {
		return err
	}
	fn(ds)
	return nil
}

func (d *documentStore) update(fn func(*model.Dataset) (bool, error)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	ds, err := d.load()
	if err != nil {
		return err
	}
	changed, err := fn(ds)
	if err != nil || !changed {
		return err
	}
	return d.save(ds)
}

// nextID returns a millisecond-clock id that is greater than every id in use.
func (d *documentStore) nextID(maxID int64) int64 {
	id := d.now().UnixMilli()
	if id <= maxID {
		id = maxID + 1
	}
	return id
}

func maxSaleID(sales []model.Sale) int64 {
	var m int64
	for _, s := range sales {
		if s.ID > m {
			m = s.ID
		}
	}
	return m
}

func maxExpenseID(expenses []model.Expense) int64 {
	var m int64
	for _, e := range expenses {
		if e.ID > m {
			m = e.ID
		}
	}
	return m
}

func (d *documentStore) ListSales(_ context.Context) ([]model.Sale, error) {
	var out []model.Sale
	err := d.view(func(ds *model.Dataset) {
		out = append([]model.Sale{}, ds.Ventas...)
	})
	if err != nil {
		return nil, err
	}
	model.SortSales(out)
	return out, nil
}

func (d *documentStore) InsertSale(_ context.Context, s model.Sale) (model.Sale, error) {
	err := d.update(func(ds *model.Dataset) (bool, error) {
		s.ID = d.nextID(maxSaleID(ds.Ventas))
		ds.Ventas = append(ds.Ventas, s)
		return true, nil
	})
	return s, err
}

func (d *documentStore) DeleteSale(_ context.Context, id int64) (bool, error) {
	var existed bool
	err := d.update(func(ds *model.Dataset) (bool, error) {
		kept := ds.Ventas[:0]
		for _, s := range ds.Ventas {
			if s.ID == id {
				existed = true
				continue
			}
			kept = append(kept, s)
		}
		ds.Ventas = kept
		return existed, nil
	})
	return existed, err
}

func (d *documentStore) ListExpenses(_ context.Context) ([]model.Expense, error) {
	var out []model.Expense
	err := d.view(func(ds *model.Dataset) {
		out = append([]model.Expense{}, ds.Gastos...)
	})
	if err != nil {
		return nil, err
	}
	model.SortExpenses(out)
	return out, nil
}

func (d *documentStore) InsertExpense(_ context.Context, e model.Expense) (model.Expense, error) {
	err := d.update(func(ds *model.Dataset) (bool, error) {
		e.ID = d.nextID(maxExpenseID(ds.Gastos))
		ds.Gastos = append(ds.Gastos, e)
		return true, nil
	})
	return e, err
}

func (d *documentStore) DeleteExpense(_ context.Context, id int64) (bool, error) {
	var existed bool
	err := d.update(func(ds *model.Dataset) (bool, error) {
		kept := ds.Gastos[:0]
		for _, e := range ds.Gastos {
			if e.ID == id {
				existed = true
				continue
			}
			kept = append(kept, e)
		}
		ds.Gastos = kept
		return existed, nil
	})
	return existed, err
}

func (d *documentStore) ListMenu(_ context.Context) ([]model.MenuEntry, error) {
	var out []model.MenuEntry
	err := d.view(func(ds *model.Dataset) {
		out = ds.MenuComidaCorrida.Entries()
	})
	return out, err
}

func (d *documentStore) UpsertMenuEntry(_ context.Context, e model.MenuEntry) error {
	return d.update(func(ds *model.Dataset) (bool, error) {
		ds.MenuComidaCorrida.Set(e)
		return true, nil
	})
}

func (d *documentStore) DeleteMenuEntry(_ context.Context, k model.MenuKey) (bool, error) {
	var existed bool
	err := d.update(func(ds *model.Dataset) (bool, error) {
		existed = ds.MenuComidaCorrida.Remove(k)
		return existed, nil
	})
	return existed, err
}

func (d *documentStore) Dump(_ context.Context) (*model.Dataset, error) {
	var out *model.Dataset
	err := d.view(func(ds *model.Dataset) {
		out = ds
	})
	if err != nil {
		return nil, err
	}
	model.SortSales(out.Ventas)
	model.SortExpenses(out.Gastos)
	return out, nil
}

// Replace keeps the ids found in ds and assigns fresh ones to records
// without an id.
func (d *documentStore) Replace(_ context.Context, ds *model.Dataset) error {
	next := &model.Dataset{
		Ventas:            append([]model.Sale{}, ds.Ventas...),
		Gastos:            append([]model.Expense{}, ds.Gastos...),
		MenuComidaCorrida: model.BuildMenu(ds.MenuComidaCorrida.Entries()),
	}
	for day := range ds.MenuComidaCorrida {
		if _, ok := next.MenuComidaCorrida[day]; !ok {
			next.MenuComidaCorrida[day] = model.DayMenu{}
			for _, c := range model.Courses {
				next.MenuComidaCorrida[day][c] = model.Course{}
			}
		}
	}
	saleMax, expenseMax := maxSaleID(next.Ventas), maxExpenseID(next.Gastos)
	for i := range next.Ventas {
		if next.Ventas[i].ID == 0 {
			saleMax = d.nextID(saleMax)
			next.Ventas[i].ID = saleMax
		}
	}
	for i := range next.Gastos {
		if next.Gastos[i].ID == 0 {
			expenseMax = d.nextID(expenseMax)
			next.Gastos[i].ID = expenseMax
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.save(next)
}
