package schema_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stevemurr/negocio-server/schema"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestValidateNilSchema(t *testing.T) {
	if err := schema.Validate(nil, map[string]any{"anything": "goes"}); err != nil {
		t.Fatalf("nil schema should pass: %v", err)
	}
}

func TestValidateRequired(t *testing.T) {
	s := map[string]any{
		"type":     "object",
		"required": []any{"ventas", "gastos"},
	}
	if err := schema.Validate(s, map[string]any{"ventas": []any{}}); err == nil {
		t.Fatal("expected error for missing 'gastos'")
	}
	if err := schema.Validate(s, map[string]any{"ventas": []any{}, "gastos": []any{}}); err != nil {
		t.Fatalf("expected pass: %v", err)
	}
}

func TestValidateTypeList(t *testing.T) {
	s := map[string]any{"type": []any{"string", "null"}}
	if err := schema.Validate(s, nil); err != nil {
		t.Fatalf("null should pass: %v", err)
	}
	if err := schema.Validate(s, "x"); err != nil {
		t.Fatalf("string should pass: %v", err)
	}
	if err := schema.Validate(s, float64(1)); err == nil {
		t.Fatal("expected error for number")
	}
}

func TestValidateAdditionalProperties(t *testing.T) {
	closed := map[string]any{
		"type":                 "object",
		"properties":           map[string]any{"nombre": map[string]any{"type": "string"}},
		"additionalProperties": false,
	}
	if err := schema.Validate(closed, map[string]any{"nombre": "ok", "extra": "bad"}); err == nil {
		t.Fatal("expected error for additional property")
	}

	typed := map[string]any{
		"type":                 "object",
		"additionalProperties": map[string]any{"type": "number"},
	}
	if err := schema.Validate(typed, map[string]any{"a": float64(1), "b": float64(2)}); err != nil {
		t.Fatalf("expected pass: %v", err)
	}
	if err := schema.Validate(typed, map[string]any{"a": "one"}); err == nil {
		t.Fatal("expected error for non-number additional property")
	}
}

func TestValidatePropertyNames(t *testing.T) {
	s := map[string]any{
		"type":          "object",
		"propertyNames": map[string]any{"pattern": `^[0-9]+$`},
	}
	if err := schema.Validate(s, map[string]any{"1": true, "22": true}); err != nil {
		t.Fatalf("expected pass: %v", err)
	}
	if err := schema.Validate(s, map[string]any{"uno": true}); err == nil {
		t.Fatal("expected error for non-numeric key")
	}
}

func TestValidateNumberConstraints(t *testing.T) {
	s := map[string]any{"type": "number", "minimum": float64(0), "maximum": float64(100)}
	if err := schema.Validate(s, float64(-1)); err == nil {
		t.Fatal("expected error for below minimum")
	}
	if err := schema.Validate(s, float64(101)); err == nil {
		t.Fatal("expected error for above maximum")
	}
	if err := schema.Validate(s, float64(50)); err != nil {
		t.Fatalf("expected pass: %v", err)
	}
}

func TestValidateIntegerType(t *testing.T) {
	s := map[string]any{"type": "integer"}
	if err := schema.Validate(s, float64(1704067200000)); err != nil {
		t.Fatalf("expected pass for whole float64: %v", err)
	}
	if err := schema.Validate(s, float64(5.5)); err == nil {
		t.Fatal("expected error for fractional number as integer")
	}
}

func TestValidateFormat(t *testing.T) {
	s := map[string]any{"type": "string", "format": "date-time"}
	if err := schema.Validate(s, "2024-01-01T10:00:00.000Z"); err != nil {
		t.Fatalf("expected pass: %v", err)
	}
	if err := schema.Validate(s, "ayer"); err == nil {
		t.Fatal("expected error for bad date-time")
	}
}

func TestValidateEnum(t *testing.T) {
	s := map[string]any{"type": "string", "enum": []any{"Sopa", "Plato Fuerte", "Postre"}}
	if err := schema.Validate(s, "Sopa"); err != nil {
		t.Fatalf("expected pass: %v", err)
	}
	if err := schema.Validate(s, "Entrada"); err == nil {
		t.Fatal("expected error for value outside enum")
	}
}

func TestValidateArrayItems(t *testing.T) {
	s := map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "maxItems": float64(2)}
	if err := schema.Validate(s, []any{"a", float64(1)}); err == nil {
		t.Fatal("expected error for wrong item type")
	}
	if err := schema.Validate(s, []any{"a", "b", "c"}); err == nil {
		t.Fatal("expected error for too many items")
	}
}

func TestSnapshotSchemaAcceptsBackup(t *testing.T) {
	doc := decode(t, `{
		"ventas": [{"id": 1704067200000, "fecha": "2024-01-01", "cliente": "Ana", "producto": "Taco",
		            "monto": 50, "metodoPago": "efectivo", "fechaRegistro": "2024-01-01T18:00:00.000Z"}],
		"gastos": [{"id": 1, "fecha": "2024-01-01", "categoria": "insumos", "descripcion": "tortillas",
		            "monto": 20, "proveedor": null}],
		"menuComidaCorrida": {"Lunes": {"Sopa": {"1": {"nombre": "Crema de elote", "descripcion": ""}},
		                                 "Plato Fuerte": {}, "Postre": {}}},
		"fecha_backup": "2024-01-02T00:00:00Z"
	}`)
	if err := schema.Validate(schema.Snapshot, doc); err != nil {
		t.Fatalf("expected pass: %v", err)
	}
}

func TestSnapshotSchemaRejections(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"missing gastos", `{"ventas": []}`, `"gastos"`},
		{"null ventas", `{"ventas": null, "gastos": []}`, "$.ventas"},
		{"negative monto", `{"ventas": [{"monto": -5}], "gastos": []}`, "$.ventas[0].monto"},
		{"string monto", `{"ventas": [], "gastos": [{"monto": "mucho"}]}`, "$.gastos[0].monto"},
		{"record not object", `{"ventas": [42], "gastos": []}`, "$.ventas[0]"},
		{"bad slot key", `{"ventas": [], "gastos": [], "menuComidaCorrida": {"Lunes": {"Sopa": {"uno": {"nombre": "x"}}}}}`, "uno"},
		{"dish without nombre", `{"ventas": [], "gastos": [], "menuComidaCorrida": {"Lunes": {"Sopa": {"1": {}}}}}`, "nombre"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := schema.Validate(schema.Snapshot, decode(t, tc.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}
