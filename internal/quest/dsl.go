// Package quest implements SPEC_FULL.md §4.4: the condition DSL, the
// 7-state quest FSM, the procedural side-quest generator, and the
// branched journal.
//
// Grounded on original_source/engine/quest/{dsl,fsm,generator,journal}.py
// for exact semantics; the expr-compile-then-vm.Run idiom follows
// nstehr-vimy/vimy-core/rules/engine.go.
package quest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Env is the expr evaluation environment every Condition runs against.
type Env struct {
	Flags         map[string]any
	Inventory     map[string]int
	Stats         map[string]float64
	Relationships map[string]float64
	WorldID       string
	Macro         string
	Micro         string
	MinuteOfDay   int
	Weather       string
}

// Condition is one declarative DSL predicate (§4.4.1). The exhaustive op
// set: has_item, flag_is, in_location, stat_gte, relation_gte,
// time_between, weather_in. Unknown ops always evaluate false.
type Condition struct {
	Op   string         `json:"op" yaml:"op" bson:"op"`
	Args map[string]any `json:"args,omitempty" yaml:"args,omitempty" bson:"args,omitempty"`

	program *vm.Program
}

func (c *Condition) compile() (*vm.Program, error) {
	if c.program != nil {
		return c.program, nil
	}
	prog, err := expr.Compile(conditionSource(c.Op, c.Args), expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, err
	}
	c.program = prog
	return prog, nil
}

// Check evaluates one condition against env.
func (c *Condition) Check(env Env) bool {
	prog, err := c.compile()
	if err != nil {
		return false
	}
	out, err := vm.Run(prog, env)
	if err != nil {
		return false
	}
	ok, _ := out.(bool)
	return ok
}

// CheckAll reports whether every condition holds. An empty slice holds
// vacuously (used for quests/steps with no gating).
func CheckAll(conds []Condition, env Env) bool {
	for i := range conds {
		if !conds[i].Check(env) {
			return false
		}
	}
	return true
}

func conditionSource(op string, args map[string]any) string {
	switch op {
	case "has_item":
		return fmt.Sprintf("Inventory[%q] >= %s", stringArg(args, "id"), numLiteral(numArg(args, "qty", 1)))
	case "flag_is":
		val := args["value"]
		if val == nil {
			val = true
		}
		return fmt.Sprintf("Flags[%q] == %s", stringArg(args, "key"), literal(val))
	case "in_location":
		var parts []string
		if v := stringArg(args, "world"); v != "" {
			parts = append(parts, fmt.Sprintf("WorldID == %q", v))
		}
		if v := stringArg(args, "macro"); v != "" {
			parts = append(parts, fmt.Sprintf("Macro == %q", v))
		}
		if v := stringArg(args, "micro"); v != "" {
			parts = append(parts, fmt.Sprintf("Micro == %q", v))
		}
		if len(parts) == 0 {
			return "true"
		}
		return strings.Join(parts, " && ")
	case "stat_gte":
		return fmt.Sprintf("Stats[%q] >= %s", stringArg(args, "name"), numLiteral(numArg(args, "value", 0)))
	case "relation_gte":
		field := stringArg(args, "field")
		key := stringArg(args, "npc")
		if field != "" && field != "affinity" {
			key = key + "." + field
		}
		return fmt.Sprintf("Relationships[%q] >= %s", key, numLiteral(numArg(args, "value", 0)))
	case "time_between":
		start := timeToMinutes(stringArg(args, "start"))
		end := timeToMinutes(stringArg(args, "end"))
		if start <= end {
			return fmt.Sprintf("MinuteOfDay >= %d && MinuteOfDay <= %d", start, end)
		}
		return fmt.Sprintf("MinuteOfDay >= %d || MinuteOfDay <= %d", start, end)
	case "weather_in":
		quoted := make([]string, 0, 4)
		for _, v := range stringListArg(args, "any") {
			quoted = append(quoted, fmt.Sprintf("%q", v))
		}
		if len(quoted) == 0 {
			return "false"
		}
		return fmt.Sprintf("Weather in [%s]", strings.Join(quoted, ", "))
	default:
		return "false"
	}
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func stringListArg(args map[string]any, key string) []string {
	v, ok := args[key]
	if !ok {
		return nil
	}
	switch vs := v.(type) {
	case []string:
		return vs
	case []any:
		out := make([]string, 0, len(vs))
		for _, e := range vs {
			out = append(out, fmt.Sprint(e))
		}
		return out
	default:
		return nil
	}
}

func numArg(args map[string]any, key string, def float64) float64 {
	v, ok := args[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return def
	}
}

func numLiteral(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func literal(v any) string {
	switch val := v.(type) {
	case bool:
		if val {
			return "true"
		}
		return "false"
	case string:
		return fmt.Sprintf("%q", val)
	case float64:
		return numLiteral(val)
	case int:
		return strconv.Itoa(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func timeToMinutes(hhmm string) int {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h*60 + m
}
