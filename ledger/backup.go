package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/stevemurr/negocio-server/metrics"
	"github.com/stevemurr/negocio-server/model"
	"github.com/stevemurr/negocio-server/schema"
	"github.com/stevemurr/negocio-server/store"
	"go.uber.org/zap"
)

const msgInvalidBackup = "Formato de respaldo inválido"

// Backup exports the whole dataset and restores it from a snapshot.
type Backup struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewBackup(s store.Store, logger *zap.Logger) *Backup {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backup{store: s, logger: logger, now: time.Now}
}

// Filename returns the attachment name of a backup taken at t.
func (b *Backup) Filename(t time.Time) string {
	return fmt.Sprintf("backup-negocio-%s.json", t.UTC().Format(model.DateLayout))
}

// Export returns a snapshot of every collection. Unlike the list
// operations a read failure is returned, never an empty snapshot.
func (b *Backup) Export(ctx context.Context) (*model.Snapshot, error) {
	ds, err := b.store.Dump(ctx)
	if err != nil {
		b.logger.Error("failed to export dataset", zap.Error(err))
		metrics.BackupOperationsTotal.WithLabelValues("export", metrics.StatusError).Inc()
		return nil, &StorageError{Op: "export", Err: err}
	}
	ds.Normalize()
	taken := stamp(b.now)
	metrics.BackupOperationsTotal.WithLabelValues("export", metrics.StatusSuccess).Inc()
	b.logger.Info("dataset exported",
		zap.Int("ventas", len(ds.Ventas)), zap.Int("gastos", len(ds.Gastos)))
	return &model.Snapshot{Dataset: *ds, FechaBackup: &taken}, nil
}

// Restore replaces every collection with the content of raw. The payload is
// fully validated before the store is touched; a rejected payload returns a
// ValidationError and leaves the current data as it was.
func (b *Backup) Restore(ctx context.Context, raw []byte) error {
	ds, err := b.parse(raw)
	if err != nil {
		b.logger.Warn("rejected backup", zap.Error(err))
		metrics.BackupOperationsTotal.WithLabelValues("restore", metrics.StatusInvalid).Inc()
		return err
	}
	if err := b.store.Replace(ctx, ds); err != nil {
		b.logger.Error("failed to restore dataset", zap.Error(err))
		metrics.BackupOperationsTotal.WithLabelValues("restore", metrics.StatusError).Inc()
		return &StorageError{Op: "restore", Err: err}
	}
	metrics.BackupOperationsTotal.WithLabelValues("restore", metrics.StatusSuccess).Inc()
	b.logger.Info("dataset restored",
		zap.Int("ventas", len(ds.Ventas)), zap.Int("gastos", len(ds.Gastos)),
		zap.Int("platillos", len(ds.MenuComidaCorrida.Entries())))
	return nil
}

func invalidBackup(detail string) error {
	return &ValidationError{Message: msgInvalidBackup + ": " + detail}
}

// parse turns a backup document into a dataset ready for Store.Replace.
func (b *Backup) parse(raw []byte) (*model.Dataset, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, invalidBackup("JSON mal formado")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, invalidBackup("contenido adicional después del documento")
	}
	if err := schema.Validate(schema.Snapshot, doc); err != nil {
		return nil, invalidBackup(err.Error())
	}

	var snap model.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, invalidBackup(err.Error())
	}
	ds := &snap.Dataset
	ds.Normalize()

	if err := uniqueIDs(collectionSales, len(ds.Ventas), func(i int) int64 { return ds.Ventas[i].ID }); err != nil {
		return nil, err
	}
	if err := uniqueIDs(collectionExpenses, len(ds.Gastos), func(i int) int64 { return ds.Gastos[i].ID }); err != nil {
		return nil, err
	}

	restored := stamp(b.now)
	for i := range ds.Ventas {
		if ds.Ventas[i].FechaRegistro.IsZero() {
			ds.Ventas[i].FechaRegistro = restored
		}
	}
	for i := range ds.Gastos {
		if ds.Gastos[i].FechaRegistro.IsZero() {
			ds.Gastos[i].FechaRegistro = restored
		}
	}
	return ds, nil
}

// uniqueIDs rejects a collection in which two records share a non-zero id.
func uniqueIDs(collection string, n int, id func(int) int64) error {
	seen := make(map[int64]struct{}, n)
	for i := 0; i < n; i++ {
		v := id(i)
		if v == 0 {
			continue
		}
		if _, dup := seen[v]; dup {
			return invalidBackup(fmt.Sprintf("id %d repetido en %s", v, collection))
		}
		seen[v] = struct{}{}
	}
	return nil
}
