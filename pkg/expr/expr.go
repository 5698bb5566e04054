// Package expr evaluates arithmetic expressions for expression nodes.
// It wraps zygomys in a sandboxed environment: input values are bound as
// globals, the final form's value is the result, and a hard timeout
// bounds runaway user code.
package expr

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"
)

// Timeout is the hard limit for a single expression evaluation.
const Timeout = 2 * time.Second

// Engine evaluates expression source. Each Eval runs in a fresh sandbox,
// so an Engine holds no state and is safe for concurrent use.
type Engine struct{}

// New returns a new Engine.
func New() *Engine {
	return &Engine{}
}

type evalOutcome struct {
	value float64
	err   error
}

// Eval computes source with vars bound as globals and returns the final
// numeric value. An empty expression is a configuration mistake and is
// reported, not silently treated as zero.
func (e *Engine) Eval(source string, vars map[string]float64) (float64, error) {
	if strings.TrimSpace(source) == "" {
		return 0, fmt.Errorf("expr: empty expression")
	}
	for name, v := range vars {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("expr: variable %q is not finite", name)
		}
	}

	ch := make(chan evalOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalOutcome{err: fmt.Errorf("expr: panic during evaluation: %v", r)}
			}
		}()
		v, err := evalSandboxed(source, vars)
		ch <- evalOutcome{value: v, err: err}
	}()

	return waitOutcome(ch, Timeout)
}

// waitOutcome blocks until the evaluation goroutine reports or the
// deadline passes. The channel is buffered, so a late result is dropped
// rather than leaking the goroutine.
func waitOutcome(ch <-chan evalOutcome, d time.Duration) (float64, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res.value, res.err
	case <-timer.C:
		return 0, fmt.Errorf("expr: evaluation timed out after %s", d)
	}
}

// evalSandboxed runs one expression in a fresh zygomys sandbox. Sandbox
// mode keeps user code away from the filesystem and syscalls.
func evalSandboxed(source string, vars map[string]float64) (float64, error) {
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	pre, preludeLines := prelude(vars)
	if err := env.LoadString(pre + preprocess(source)); err != nil {
		return 0, fmt.Errorf("expr: %s", cleanError(err, preludeLines))
	}
	result, err := env.Run()
	if err != nil {
		return 0, fmt.Errorf("expr: %s", cleanError(err, preludeLines))
	}
	return toFloat64(result)
}

// prelude emits one def form per variable, in sorted order so reported
// line numbers stay stable. Names are mangled the same way preprocess
// mangles identifiers, keeping slot names and expression text aligned.
func prelude(vars map[string]float64) (string, int) {
	if len(vars) == 0 {
		return "", 0
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		lit := strconv.FormatFloat(vars[name], 'f', -1, 64)
		fmt.Fprintf(&sb, "(def %s %s)\n", mangle(name), lit)
	}
	return sb.String(), len(names)
}

func mangle(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// linePattern matches zygomys messages like "Error on line N: ...".
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// cleanError flattens a zygomys error message, shifting any reported
// line number past the generated variable prelude.
func cleanError(err error, preludeLines int) string {
	msg := strings.TrimSpace(err.Error())
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		line -= preludeLines
		if line < 1 {
			line = 1
		}
		return fmt.Sprintf("line %d: %s", line, strings.TrimSpace(m[2]))
	}
	return msg
}

// toFloat64 extracts the numeric result of the final form.
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expr: expression produced %s, not a number", describeSexp(s))
}

func describeSexp(s zygo.Sexp) string {
	if s == nil || s == zygo.SexpNull {
		return "nothing"
	}
	return fmt.Sprintf("%T", s)
}

// preprocess adjusts expression text for zygomys: Lisp ; comments become
// // comments, and kebab-case identifiers become underscore form since
// zygomys reads a bare hyphen as subtraction. String literals pass
// through untouched.
func preprocess(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// alpha-alpha -> alpha_alpha, leaving minus operators alone.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
