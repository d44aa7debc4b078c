package main

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pterm/pterm"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/spf13/cobra"

	"github.com/phylogo/go-nexus/assumptions"
	"github.com/phylogo/go-nexus/characters"
	"github.com/phylogo/go-nexus/logger"
	"github.com/phylogo/go-nexus/nexus"
	"github.com/phylogo/go-nexus/taxa"
)

// fileResult is the outcome of parsing one NEXUS file.
type fileResult struct {
	err      error
	comments []string
	skipped  []string

	taxaBlock  *taxa.Block
	charBlock  *characters.Block
	dataBlock  *characters.Block
	assumption *assumptions.Block
}

func run(cmd *cobra.Command, args []string) error {
	cfg := &config{}
	if cfgPath != "" {
		loaded, err := loadConfig(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if dumpMatrix {
		cfg.DumpMatrix = true
	}

	level, _ := cfg.level()
	if verbose {
		level = logger.DebugLevel
	}
	logger.SetLevel(level)

	results := xsync.NewMapOf[string, *fileResult]()
	var wg sync.WaitGroup
	for _, path := range args {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			results.Store(path, parseFile(path, cfg))
		}(path)
	}
	wg.Wait()

	failed := 0
	for _, path := range args {
		res, _ := results.Load(path)
		render(path, res, cfg)
		if res.err != nil {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to parse", failed, len(args))
	}
	return nil
}

// parseFile reads one NEXUS file into a fresh document. Each file gets
// its own block readers, so files can be parsed concurrently.
func parseFile(path string, cfg *config) *fileResult {
	res := &fileResult{}

	res.taxaBlock = taxa.NewBlock()
	res.assumption = assumptions.NewBlock(res.taxaBlock)
	attach := func(c *characters.Block) { res.assumption.SetMatrix(c) }
	res.charBlock = characters.NewBlock(res.taxaBlock, attach)
	res.dataBlock = characters.NewDataBlock(res.taxaBlock, attach)

	doc := nexus.NewDocument()
	doc.Add(res.taxaBlock)
	doc.Add(res.charBlock)
	doc.Add(res.dataBlock)
	doc.Add(res.assumption)

	for _, b := range doc.Blocks() {
		for _, name := range cfg.DisabledBlocks {
			if strings.EqualFold(b.ID(), name) {
				b.Disable()
			}
		}
	}

	doc.SetHooks(nexus.Hooks{
		OutputComment: func(comment string) {
			res.comments = append(res.comments, comment)
		},
		SkippingBlock: func(name string) {
			res.skipped = append(res.skipped, name)
		},
	})

	f, err := os.Open(path)
	if err != nil {
		res.err = err
		return res
	}
	defer f.Close()

	res.err = doc.Execute(nexus.NewTokenizer(f))
	return res
}

func render(path string, res *fileResult, cfg *config) {
	pterm.DefaultSection.Println(path)

	if res.err != nil {
		pterm.Error.Println(res.err)
		return
	}
	pterm.Success.Println("parsed")

	for _, c := range res.comments {
		pterm.Info.Printfln("output comment: %s", c)
	}
	for _, name := range res.skipped {
		pterm.Info.Printfln("skipped unknown block: %s", name)
	}

	if !res.taxaBlock.IsEmpty() {
		pterm.Println(report(res.taxaBlock))
	}
	renderChars(res.charBlock, cfg)
	renderChars(res.dataBlock, cfg)
	if !res.assumption.IsEmpty() {
		pterm.Println(report(res.assumption))
	}
}

// renderChars prints a one-line summary of a character matrix, or the
// full block report when a matrix dump was requested.
func renderChars(cb *characters.Block, cfg *config) {
	if cb.IsEmpty() {
		return
	}
	if cfg.DumpMatrix {
		pterm.Println(report(cb))
		return
	}
	pterm.Info.Printfln("%s block: %d taxa, %d characters, datatype %s",
		cb.ID(), cb.NumTaxa(), cb.NumChar(), cb.DataType())
}

func report(b nexus.Block) string {
	var sb strings.Builder
	b.Report(&sb)
	return sb.String()
}
