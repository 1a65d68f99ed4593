package mapping

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	treediff "github.com/pagereplay/treediff"
)

// Pair is a raw post_id correspondence reported by the solver: (0, b)
// means b was inserted, (a, 0) means a was deleted, and (a, b) with
// both nonzero means a was mapped onto b.
type Pair struct {
	Source, Target int
}

// SolverConfig names the external tree-edit-distance jar and the
// bracketed-tree file pair it is invoked against.
type SolverConfig struct {
	JarPath    string
	FirstTree  string
	SecondTree string
}

// Run invokes the solver as `java -jar <jar> -f <first> <second> -m`
// on the two bracket-tree files the caller has already written, and
// parses its stdout. The first line of output is a cost summary and is
// discarded; every following line is an "a->b" post_id pair.
func Run(ctx context.Context, cfg SolverConfig) ([]Pair, error) {
	cmd := exec.CommandContext(ctx, "java", "-jar", cfg.JarPath, "-f", cfg.FirstTree, cfg.SecondTree, "-m")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: solver exited: %v", treediff.ErrExternalFailure, err)
	}
	return ParseOutput(strings.TrimRight(string(output), "\n"))
}

// ParseOutput parses the solver's stdout into a list of Pairs,
// discarding the leading cost-summary line.
func ParseOutput(output string) ([]Pair, error) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	if !scanner.Scan() {
		return nil, fmt.Errorf("%w: empty solver output", treediff.ErrExternalFailure)
	}

	var pairs []Pair
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "->", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: malformed mapping line %q", treediff.ErrExternalFailure, line)
		}
		a, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: malformed source post_id in %q", treediff.ErrExternalFailure, line)
		}
		b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: malformed target post_id in %q", treediff.ErrExternalFailure, line)
		}
		pairs = append(pairs, Pair{Source: a, Target: b})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading solver output: %v", treediff.ErrExternalFailure, err)
	}
	return pairs, nil
}

// WriteBracketFile renders a tree to path in the solver's bracket
// format.
func WriteBracketFile(path string, render func(w *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", treediff.ErrIO, path, err)
	}
	defer f.Close()
	if err := render(f); err != nil {
		return fmt.Errorf("%w: writing %s: %v", treediff.ErrIO, path, err)
	}
	return nil
}
