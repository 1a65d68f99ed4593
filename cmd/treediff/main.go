// Command treediff diffs two HTML documents of the same page and
// writes either their common structure or a JSON patch that, applied
// to the first, reproduces the second.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"

	treediff "github.com/pagereplay/treediff"
	"github.com/pagereplay/treediff/internal/cache"
	"github.com/pagereplay/treediff/internal/config"
	"github.com/pagereplay/treediff/internal/domtree"
	"github.com/pagereplay/treediff/internal/editscript"
	"github.com/pagereplay/treediff/internal/mapping"
	"github.com/pagereplay/treediff/internal/patch"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default ./treediff.yaml if present, else ~/.config/treediff/config.yaml)")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if *configPath != "" {
		config.SetConfigPath(*configPath)
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()

	if err := run(logger, flag.Args()); err != nil {
		logger.Error().Err(err).Msg("treediff failed")
		os.Exit(exitCodeFor(err))
	}
}

func run(logger zerolog.Logger, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: usage: treediff first_html second_html out_path [html|json]", treediff.ErrInvalidInput)
	}

	firstPath, secondPath, outPath := args[0], args[1], args[2]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	mode := cfg.DefaultMode
	if len(args) >= 4 {
		mode = args[3]
	}
	if mode != "html" && mode != "json" {
		return fmt.Errorf("%w: mode must be \"html\" or \"json\", got %q", treediff.ErrInvalidInput, mode)
	}

	logger.Info().Str("first", firstPath).Str("second", secondPath).Str("mode", mode).Msg("starting diff")

	firstHTML, err := os.ReadFile(firstPath)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", treediff.ErrIO, firstPath, err)
	}
	secondHTML, err := os.ReadFile(secondPath)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", treediff.ErrIO, secondPath, err)
	}

	firstTree, err := domtree.BuildTree(firstPath, string(firstHTML))
	if err != nil {
		return err
	}
	secondTree, err := domtree.BuildTree(secondPath, string(secondHTML))
	if err != nil {
		return err
	}
	logger.Debug().Int("first_nodes", firstTree.Len()).Int("second_nodes", secondTree.Len()).Msg("parsed inputs")

	pairs, err := resolveMapping(logger, cfg, outPath, firstTree, secondTree)
	if err != nil {
		return err
	}

	sequence, err := mapping.Translate(firstTree, secondTree, pairs)
	if err != nil {
		return err
	}
	logger.Debug().Int("edits", len(sequence.Edits)).Int("cost", sequence.TotalCost).Msg("translated mapping")

	if mode == "html" {
		if err := writeCommonHTML(cfg, sequence, firstTree, outPath); err != nil {
			return err
		}
		logger.Info().Str("out", outPath).Msg("wrote common tree")
		return nil
	}
	if err := writeJSONPatch(cfg, sequence, firstTree, outPath, firstPath); err != nil {
		return err
	}
	logger.Info().Str("out", outPath).Msg("wrote json patch")
	return nil
}

// resolveMapping consults the solver cache before shelling out to the
// external tree-edit-distance solver.
func resolveMapping(logger zerolog.Logger, cfg *config.Config, outPath string, first, second *domtree.Tree) ([]mapping.Pair, error) {
	firstPath := outPath + "_1.tree"
	secondPath := outPath + "_2.tree"

	if err := mapping.WriteBracketFile(firstPath, func(w *os.File) error { return mapping.WriteBracket(w, first) }); err != nil {
		return nil, err
	}
	if err := mapping.WriteBracketFile(secondPath, func(w *os.File) error { return mapping.WriteBracket(w, second) }); err != nil {
		return nil, err
	}

	firstBracket, err := os.ReadFile(firstPath)
	if err != nil {
		return nil, fmt.Errorf("%w: rereading %s: %v", treediff.ErrIO, firstPath, err)
	}
	secondBracket, err := os.ReadFile(secondPath)
	if err != nil {
		return nil, fmt.Errorf("%w: rereading %s: %v", treediff.ErrIO, secondPath, err)
	}
	key := cache.Key(string(firstBracket), string(secondBracket))

	var store *cache.Cache
	if cfg.CacheDBPath != "" {
		store, err = cache.Open(cfg.CacheDBPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()

		if pairs, hit, err := store.Get(key); err != nil {
			return nil, err
		} else if hit {
			logger.Debug().Str("key", key).Msg("solver cache hit")
			return pairs, nil
		}
	}

	if cfg.AptedJarPath == "" {
		return nil, fmt.Errorf("%w: no apted_jar_path configured", treediff.ErrInvalidInput)
	}
	pairs, err := mapping.Run(context.Background(), mapping.SolverConfig{
		JarPath:    cfg.AptedJarPath,
		FirstTree:  firstPath,
		SecondTree: secondPath,
	})
	if err != nil {
		return nil, err
	}

	if store != nil {
		if err := store.Put(key, pairs); err != nil {
			return nil, err
		}
	}
	return pairs, nil
}

func writeCommonHTML(cfg *config.Config, sequence *editscript.Sequence, first *domtree.Tree, outPath string) error {
	common, err := sequence.GenerateCommonTree(first)
	if err != nil {
		return err
	}
	rendered, err := domtree.RenderHTML(common)
	if err != nil {
		return err
	}
	if cfg.Minify {
		rendered = minifyHTML(rendered)
	}
	if err := os.WriteFile(outPath, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", treediff.ErrIO, outPath, err)
	}
	return nil
}

func writeJSONPatch(cfg *config.Config, sequence *editscript.Sequence, first *domtree.Tree, outPath, firstPath string) error {
	patchJSON, err := sequence.GenerateJSONUpdate(first)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(patchJSON)
	if err != nil {
		return fmt.Errorf("%w: encoding patch: %v", treediff.ErrIO, err)
	}
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", treediff.ErrIO, outPath, err)
	}

	if cfg.PatcherScriptPath == "" {
		return nil
	}
	patcherJS, err := os.ReadFile(cfg.PatcherScriptPath)
	if err != nil {
		return fmt.Errorf("%w: reading patcher script: %v", treediff.ErrIO, err)
	}
	patched := first.DeepCopy()
	if err := patch.InsertPatchers(patched, string(patcherJS)); err != nil {
		return err
	}
	rendered, err := domtree.RenderHTML(patched)
	if err != nil {
		return err
	}
	patchedPath := strings.TrimSuffix(firstPath, filepath.Ext(firstPath)) + "_patched.html"
	if err := os.WriteFile(patchedPath, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", treediff.ErrIO, patchedPath, err)
	}
	return nil
}

func minifyHTML(content string) string {
	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	out, err := m.String("text/html", content)
	if err != nil {
		return content
	}
	return out
}

func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, treediff.ErrInvalidInput):
		return 2
	case errors.Is(err, treediff.ErrIO):
		return 3
	case errors.Is(err, treediff.ErrExternalFailure):
		return 4
	case errors.Is(err, treediff.ErrInvariantViolation):
		return 5
	default:
		return 1
	}
}
