package model

import "sort"

// Course names of the comida corrida.
const (
	CourseSoup    = "Sopa"
	CourseMain    = "Plato Fuerte"
	CourseDessert = "Postre"
)

// Courses lists the courses in serving order.
var Courses = []string{CourseSoup, CourseMain, CourseDessert}

// Weekdays lists the accepted values of a menu day.
var Weekdays = []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}

// IsCourse reports whether name is one of Courses.
func IsCourse(name string) bool {
	for _, c := range Courses {
		if c == name {
			return true
		}
	}
	return false
}

// IsWeekday reports whether name is one of Weekdays.
func IsWeekday(name string) bool {
	for _, d := range Weekdays {
		if d == name {
			return true
		}
	}
	return false
}

// MenuKey identifies one menu slot.
type MenuKey struct {
	Dia    string `json:"dia"`
	Tiempo string `json:"tiempo"`
	Opcion int    `json:"opcion"`
}

// Dish is the content of a menu slot.
type Dish struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
}

// MenuEntry is a flattened menu slot, the row shape of relational backends.
type MenuEntry struct {
	MenuKey
	Dish
}

// Course maps an option number to its dish.
type Course map[int]Dish

// DayMenu maps a course name to its options.
type DayMenu map[string]Course

// Menu is the weekly menu: day -> course -> option -> dish.
type Menu map[string]DayMenu

// Set writes a slot, creating the day with all three courses on first use.
func (m Menu) Set(e MenuEntry) {
	day, ok := m[e.Dia]
	if !ok {
		day = DayMenu{}
		for _, c := range Courses {
			day[c] = Course{}
		}
		m[e.Dia] = day
	}
	course, ok := day[e.Tiempo]
	if !ok {
		course = Course{}
		day[e.Tiempo] = course
	}
	course[e.Opcion] = e.Dish
}

// Lookup returns the dish stored at k.
func (m Menu) Lookup(k MenuKey) (Dish, bool) {
	d, ok := m[k.Dia][k.Tiempo][k.Opcion]
	return d, ok
}

// Remove deletes the slot at k and reports whether it existed. The day stays
// in the menu even when it becomes empty.
func (m Menu) Remove(k MenuKey) bool {
	if _, ok := m.Lookup(k); !ok {
		return false
	}
	delete(m[k.Dia][k.Tiempo], k.Opcion)
	return true
}

// Entries flattens the menu in a stable order: day, course, option.
func (m Menu) Entries() []MenuEntry {
	var out []MenuEntry
	for dia, day := range m {
		for tiempo, course := range day {
			for opcion, dish := range course {
				out = append(out, MenuEntry{
					MenuKey: MenuKey{Dia: dia, Tiempo: tiempo, Opcion: opcion},
					Dish:    dish,
				})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].MenuKey, out[j].MenuKey
		if a.Dia != b.Dia {
			return a.Dia < b.Dia
		}
		if a.Tiempo != b.Tiempo {
			return a.Tiempo < b.Tiempo
		}
		return a.Opcion < b.Opcion
	})
	return out
}

// BuildMenu assembles a Menu from flattened entries.
func BuildMenu(entries []MenuEntry) Menu {
	m := Menu{}
	for _, e := range entries {
		m.Set(e)
	}
	return m
}
