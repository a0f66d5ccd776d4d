package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/stevemurr/negocio-server/model"
	"github.com/stevemurr/negocio-server/store"
	"go.uber.org/zap"
)

// MenuInput is the body of a menu upsert. Opcion may arrive as a number or
// as a numeric string.
type MenuInput struct {
	Dia         string `json:"dia"`
	Tiempo      string `json:"tiempo"`
	Opcion      any    `json:"opcion"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
}

// Menu manages the weekly comida corrida menu.
type Menu struct {
	store  store.Store
	logger *zap.Logger
}

func NewMenu(s store.Store, logger *zap.Logger) *Menu {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Menu{store: s, logger: logger}
}

// Get returns the menu as day -> course -> option -> dish. A store failure
// is logged and yields an empty menu.
func (m *Menu) Get(ctx context.Context) model.Menu {
	entries, err := m.store.ListMenu(ctx)
	if err != nil {
		m.logger.Error("failed to list menu", zap.Error(err))
		return model.Menu{}
	}
	return model.BuildMenu(entries)
}

// Upsert writes the dish into its slot, replacing any previous dish.
func (m *Menu) Upsert(ctx context.Context, in MenuInput) (model.MenuEntry, error) {
	entry, err := in.entry()
	if err != nil {
		record(collectionMenu, "upsert", err)
		return model.MenuEntry{}, err
	}
	if err := m.store.UpsertMenuEntry(ctx, entry); err != nil {
		m.logger.Error("failed to save dish",
			zap.String("dia", entry.Dia), zap.String("tiempo", entry.Tiempo), zap.Int("opcion", entry.Opcion),
			zap.Error(err))
		err = &StorageError{Op: "upsert platillo", Err: err}
		record(collectionMenu, "upsert", err)
		return model.MenuEntry{}, err
	}
	record(collectionMenu, "upsert", nil)
	return entry, nil
}

// Delete empties the slot dia/tiempo/opcion. It returns a NotFoundError
// when the slot holds no dish.
func (m *Menu) Delete(ctx context.Context, dia, tiempo, opcion string) error {
	n, err := strconv.Atoi(opcion)
	if err != nil {
		err = &NotFoundError{Type: "platillo", Key: dia + "/" + tiempo + "/" + opcion}
		record(collectionMenu, "delete", err)
		return err
	}
	key := model.MenuKey{Dia: dia, Tiempo: tiempo, Opcion: n}
	existed, err := m.store.DeleteMenuEntry(ctx, key)
	if err != nil {
		m.logger.Error("failed to delete dish", zap.String("dia", dia), zap.String("tiempo", tiempo),
			zap.Int("opcion", n), zap.Error(err))
		err = &StorageError{Op: "delete platillo", Err: err}
		record(collectionMenu, "delete", err)
		return err
	}
	if !existed {
		err = &NotFoundError{Type: "platillo", Key: fmt.Sprintf("%s/%s/%d", dia, tiempo, n)}
		record(collectionMenu, "delete", err)
		return err
	}
	record(collectionMenu, "delete", nil)
	return nil
}

func (in MenuInput) entry() (model.MenuEntry, error) {
	dia := strings.TrimSpace(in.Dia)
	tiempo := strings.TrimSpace(in.Tiempo)
	nombre := strings.TrimSpace(in.Nombre)
	opcion, present, ok := parseOption(in.Opcion)

	var missing []string
	if dia == "" {
		missing = append(missing, "dia")
	}
	if tiempo == "" {
		missing = append(missing, "tiempo")
	}
	if !present {
		missing = append(missing, "opcion")
	}
	if nombre == "" {
		missing = append(missing, "nombre")
	}
	if len(missing) > 0 {
		return model.MenuEntry{}, &ValidationError{Message: msgMissingData, Fields: missing}
	}

	var invalid []string
	if !model.IsWeekday(dia) {
		invalid = append(invalid, "dia")
	}
	if !model.IsCourse(tiempo) {
		invalid = append(invalid, "tiempo")
	}
	if !ok {
		invalid = append(invalid, "opcion")
	}
	if len(invalid) > 0 {
		return model.MenuEntry{}, &ValidationError{Message: "Datos de platillo inválidos", Fields: invalid}
	}

	return model.MenuEntry{
		MenuKey: model.MenuKey{Dia: dia, Tiempo: tiempo, Opcion: opcion},
		Dish:    model.Dish{Nombre: nombre, Descripcion: in.Descripcion},
	}, nil
}

// parseOption reads an option number. present is false for absent, zero or
// empty values; ok is false for anything that is not a whole number >= 1.
func parseOption(v any) (n int, present, ok bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, false, false
	case float64:
		f = x
	case json.Number:
		var err error
		if f, err = x.Float64(); err != nil {
			return 0, true, false
		}
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false, false
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return 0, true, false
		}
		f = float64(i)
	default:
		return 0, true, false
	}
	if f == 0 {
		return 0, false, false
	}
	if f < 1 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, true, false
	}
	return int(f), true, true
}
