// Package sgf reads and writes the subset of Smart Game Format used by
// tsumego collections: setup stones, board size and a main line of moves.
package sgf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	errs "tsumego_lab/internal/errors"
)

// GameTree представляет одно дерево в SGF (узел + варианты)
type GameTree struct {
	Nodes    []Node      // Последовательность узлов (основная линия)
	Children []*GameTree // Варианты (вариативные линии)
}

// Node представляет один узел SGF (набор свойств, таких как B[pd], W[dd], C[...])
type Node struct {
	Properties map[string][]string // Свойства могут повторяться (например, AB[aa][bb])
}

// SGF представляет корневой элемент SGF-файла
type SGF struct {
	Root *GameTree
}

// Get returns the first value of a property, or "" when it is missing.
func (n Node) Get(key string) string {
	if values := n.Properties[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// RootNode is the first node of the first game tree.
func (s *SGF) RootNode() (Node, error) {
	if s == nil || s.Root == nil || len(s.Root.Nodes) == 0 {
		return Node{}, errors.WithMessage(errs.ErrMalformedInput, "sgf has no root node")
	}
	return s.Root.Nodes[0], nil
}

// MainLine follows the first variation from the root to a leaf.
func (s *SGF) MainLine() []Node {
	var retVal []Node
	for tree := s.Root; tree != nil; {
		retVal = append(retVal, tree.Nodes...)
		if len(tree.Children) == 0 {
			break
		}
		tree = tree.Children[0]
	}
	return retVal
}

// Parse reads the first game tree of an SGF collection.
func Parse(text string) (*SGF, error) {
	p := &parser{src: text}
	p.skipSpace()
	if !p.consume('(') {
		return nil, p.errorf("expected '('")
	}
	tree, err := p.gameTree()
	if err != nil {
		return nil, err
	}
	if len(tree.Nodes) == 0 {
		return nil, p.errorf("game tree without nodes")
	}
	return &SGF{Root: tree}, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return errors.WithMessagef(errs.ErrMalformedInput, "sgf offset %d: "+format, append([]interface{}{p.pos}, args...)...)
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) consume(c byte) bool {
	if p.peek() == c && !p.eof() {
		p.pos++
		return true
	}
	return false
}

func (p *parser) skipSpace() {
	for !p.eof() && strings.IndexByte(" \t\r\n", p.src[p.pos]) >= 0 {
		p.pos++
	}
}

// gameTree parses the rest of a tree whose '(' was already consumed.
func (p *parser) gameTree() (*GameTree, error) {
	tree := &GameTree{}
	for {
		p.skipSpace()
		switch {
		case p.eof():
			return nil, p.errorf("unterminated game tree")
		case p.consume(';'):
			if len(tree.Children) > 0 {
				return nil, p.errorf("node after variations")
			}
			node, err := p.node()
			if err != nil {
				return nil, err
			}
			tree.Nodes = append(tree.Nodes, node)
		case p.consume('('):
			child, err := p.gameTree()
			if err != nil {
				return nil, err
			}
			tree.Children = append(tree.Children, child)
		case p.consume(')'):
			return tree, nil
		default:
			return nil, p.errorf("unexpected %q", p.peek())
		}
	}
}

func (p *parser) node() (Node, error) {
	node := Node{Properties: make(map[string][]string)}
	for {
		p.skipSpace()
		start := p.pos
		for !p.eof() && isIdentByte(p.peek()) {
			p.pos++
		}
		if start == p.pos {
			return node, nil
		}
		// FF[1-3] allowed lowercase letters in identifiers, e.g. AddBlack
		var ident strings.Builder
		for _, c := range []byte(p.src[start:p.pos]) {
			if c >= 'A' && c <= 'Z' {
				ident.WriteByte(c)
			}
		}
		key := ident.String()
		if key == "" {
			return node, p.errorf("property without upper case letters")
		}

		p.skipSpace()
		if p.peek() != '[' {
			return node, p.errorf("property %s without value", key)
		}
		for {
			p.skipSpace()
			if !p.consume('[') {
				break
			}
			value, err := p.value()
			if err != nil {
				return node, err
			}
			node.Properties[key] = append(node.Properties[key], value)
		}
	}
}

func isIdentByte(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// value reads up to the closing ']' and resolves escapes.
func (p *parser) value() (string, error) {
	var b strings.Builder
	for !p.eof() {
		c := p.src[p.pos]
		p.pos++
		switch c {
		case ']':
			return b.String(), nil
		case '\\':
			if p.eof() {
				return "", p.errorf("dangling escape")
			}
			next := p.src[p.pos]
			p.pos++
			if next == '\n' {
				continue // soft line break
			}
			b.WriteByte(next)
		default:
			b.WriteByte(c)
		}
	}
	return "", p.errorf("unterminated property value")
}

// фиксированный порядок свойств SGF
var orderedKeys = []string{"FF", "CA", "GM", "SZ", "AP", "PB", "PW", "DT", "RE", "KM", "RU", "C", "AB", "AW", "B", "W"}

// Serialize writes s back as SGF text.
func Serialize(s *SGF) string {
	var builder strings.Builder
	builder.WriteString("(")
	serializeGameTree(&builder, s.Root)
	builder.WriteString(")")
	return builder.String()
}

func serializeGameTree(builder *strings.Builder, tree *GameTree) {
	for _, node := range tree.Nodes {
		builder.WriteString(";")

		used := make(map[string]bool)
		for _, key := range orderedKeys {
			if values, ok := node.Properties[key]; ok {
				used[key] = true
				writeProperty(builder, key, values)
			}
		}

		rest := make([]string, 0, len(node.Properties))
		for key := range node.Properties {
			if !used[key] {
				rest = append(rest, key)
			}
		}
		sort.Strings(rest)
		for _, key := range rest {
			writeProperty(builder, key, node.Properties[key])
		}
	}

	for _, child := range tree.Children {
		builder.WriteString("(")
		serializeGameTree(builder, child)
		builder.WriteString(")")
	}
}

func writeProperty(builder *strings.Builder, key string, values []string) {
	if len(values) == 0 {
		return
	}
	builder.WriteString(key)
	for _, v := range values {
		builder.WriteString(fmt.Sprintf("[%s]", escape(v)))
	}
}

var escaper = strings.NewReplacer(`\`, `\\`, `]`, `\]`)

func escape(v string) string { return escaper.Replace(v) }
