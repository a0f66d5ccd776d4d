package schema

func optional(t string) map[string]any {
	return map[string]any{"type": []any{t, "null"}}
}

var idSchema = map[string]any{"type": []any{"integer", "null"}, "minimum": float64(0)}

var amountSchema = map[string]any{"type": []any{"number", "null"}, "minimum": float64(0)}

var timestampSchema = map[string]any{"type": []any{"string", "null"}, "format": "date-time"}

// Sale describes one element of a backup's "ventas" array.
var Sale = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":            idSchema,
		"fecha":         optional("string"),
		"cliente":       optional("string"),
		"producto":      optional("string"),
		"monto":         amountSchema,
		"metodoPago":    optional("string"),
		"notas":         optional("string"),
		"fechaRegistro": timestampSchema,
	},
}

// Expense describes one element of a backup's "gastos" array.
var Expense = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":            idSchema,
		"fecha":         optional("string"),
		"categoria":     optional("string"),
		"descripcion":   optional("string"),
		"monto":         amountSchema,
		"proveedor":     optional("string"),
		"notas":         optional("string"),
		"fechaRegistro": timestampSchema,
	},
}

// Dish describes the content of one menu slot.
var Dish = map[string]any{
	"type":     "object",
	"required": []any{"nombre"},
	"properties": map[string]any{
		"nombre":      map[string]any{"type": "string", "minLength": float64(1)},
		"descripcion": optional("string"),
	},
}

// Menu describes the nested day -> course -> option -> dish mapping.
var Menu = map[string]any{
	"type": []any{"object", "null"},
	"additionalProperties": map[string]any{
		"type": "object",
		"additionalProperties": map[string]any{
			"type":                 "object",
			"propertyNames":        map[string]any{"pattern": `^[1-9][0-9]{0,8}$`},
			"additionalProperties": Dish,
		},
	},
}

// Snapshot describes a whole backup document.
var Snapshot = map[string]any{
	"type":     "object",
	"required": []any{"ventas", "gastos"},
	"properties": map[string]any{
		"ventas":            map[string]any{"type": "array", "items": Sale},
		"gastos":            map[string]any{"type": "array", "items": Expense},
		"menuComidaCorrida": Menu,
		"fecha_backup":      timestampSchema,
	},
}
