package regions

import (
	"context"
	"sort"
	"sync"

	"github.com/kobzarvs/vedit/internal/config"
	"github.com/kobzarvs/vedit/internal/fold"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/golang"
	tree_sitter_markdown "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/yaml"
)

// Event signals that a file has been (re)parsed and fresh fold regions
// are available.
type Event struct {
	Kind string
	Path string
}

const EventParsed = "parsed"

// Engine computes fold region boundaries from syntax trees. It only
// reports where multi-line blocks are; whether they are collapsed is
// someone else's state.
type Engine struct {
	langs   config.Languages
	parsers map[string]*sitter.Parser
	trees   map[string]*sitter.Tree
	sources map[string][]byte
	reqCh   chan parseRequest
	events  chan Event
	stopCh  chan struct{}
	mu      sync.RWMutex
}

type parseRequest struct {
	path     string
	language string
	text     string
}

func New(langs config.Languages) *Engine {
	return &Engine{
		langs:   langs,
		parsers: make(map[string]*sitter.Parser),
		trees:   make(map[string]*sitter.Tree),
		sources: make(map[string][]byte),
		reqCh:   make(chan parseRequest, 8),
		events:  make(chan Event, 16),
		stopCh:  make(chan struct{}),
	}
}

func (e *Engine) Start() error {
	languages := []struct {
		name string
		lang *sitter.Language
	}{
		{"go", golang.GetLanguage()},
		{"markdown", tree_sitter_markdown.GetLanguage()},
		{"yaml", yaml.GetLanguage()},
		{"toml", toml.GetLanguage()},
		{"bash", bash.GetLanguage()},
	}

	for _, l := range languages {
		p := sitter.NewParser()
		p.SetLanguage(l.lang)
		e.parsers[l.name] = p
	}

	go e.loop()
	return nil
}

func (e *Engine) Stop() error {
	select {
	case <-e.stopCh:
		return nil
	default:
		close(e.stopCh)
		return nil
	}
}

func (e *Engine) Events() <-chan Event {
	return e.events
}

// Parse queues an async re-parse; a full queue drops the request since
// a newer one will follow.
func (e *Engine) Parse(path, language, text string) {
	select {
	case e.reqCh <- parseRequest{path: path, language: language, text: text}:
	default:
	}
}

func (e *Engine) loop() {
	for {
		select {
		case <-e.stopCh:
			return
		case req := <-e.reqCh:
			e.mu.RLock()
			parser, ok := e.parsers[req.language]
			e.mu.RUnlock()
			if !ok {
				continue
			}
			e.mu.Lock()
			tree, _ := parser.ParseCtx(context.Background(), nil, []byte(req.text))
			e.trees[req.path] = tree
			e.sources[req.path] = []byte(req.text)
			e.mu.Unlock()
			e.sendEvent(EventParsed, req.path)
		}
	}
}

func (e *Engine) sendEvent(kind, path string) {
	select {
	case e.events <- Event{Kind: kind, Path: path}:
	default:
	}
}

// ParseSync parses immediately on the caller's goroutine.
func (e *Engine) ParseSync(path, language, text string) bool {
	lang := language
	if lang == "" {
		if detected := e.langs.Match(path); detected != nil {
			lang = detected.Name
		}
	}
	if lang == "" {
		return false
	}
	e.mu.Lock()
	parser, ok := e.parsers[lang]
	if !ok {
		e.mu.Unlock()
		return false
	}
	tree, _ := parser.ParseCtx(context.Background(), nil, []byte(text))
	e.trees[path] = tree
	e.sources[path] = []byte(text)
	e.mu.Unlock()
	e.sendEvent(EventParsed, path)
	return true
}

// Regions returns fold region boundaries for the file's current tree:
// every named node spanning more than one line becomes a candidate,
// deduplicated by start line (outermost wins) and sorted by start line.
func (e *Engine) Regions(path string) []fold.Region {
	e.mu.RLock()
	tree := e.trees[path]
	e.mu.RUnlock()

	if tree == nil {
		return nil
	}
	root := tree.RootNode()
	if root == nil {
		return nil
	}

	byStart := make(map[int]int)
	collectRegions(root, byStart)
	if len(byStart) == 0 {
		return nil
	}

	regions := make([]fold.Region, 0, len(byStart))
	for start, end := range byStart {
		regions = append(regions, fold.Region{StartLine: start, EndLine: end})
	}
	sort.Slice(regions, func(i, j int) bool {
		return regions[i].StartLine < regions[j].StartLine
	})
	return regions
}

// collectRegions walks the tree and keeps, per start line, the widest
// multi-line named node. The root node is skipped so the whole file is
// never one region.
func collectRegions(root *sitter.Node, byStart map[int]int) {
	var walk func(n *sitter.Node, isRoot bool)
	walk = func(n *sitter.Node, isRoot bool) {
		if !isRoot && n.IsNamed() {
			start := int(n.StartPoint().Row)
			end := int(n.EndPoint().Row)
			if end > start {
				if prev, ok := byStart[start]; !ok || end > prev {
					byStart[start] = end
				}
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child != nil {
				walk(child, false)
			}
		}
	}
	walk(root, true)
}
