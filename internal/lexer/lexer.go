package lexer

import (
	"github.com/raharrison/mathengine/internal/registry"
	"github.com/raharrison/mathengine/internal/token"
)

// Pipeline runs the four lexer passes in order: Scan, Split, Classify,
// InsertImplicitMultiply.
type Pipeline struct {
	splitter   *Splitter
	classifier *Classifier
}

// NewPipeline builds a Pipeline backed by the given registries.
func NewPipeline(units *registry.UnitRegistry, constants *registry.ConstantRegistry, keywords *registry.KeywordSet, functions NameSet) *Pipeline {
	return &Pipeline{
		splitter:   NewSplitter(constants, functions, units),
		classifier: NewClassifier(keywords, functions),
	}
}

// Tokenize runs the full lexer pipeline over source and returns the final
// token sequence ready for the parser.
func (p *Pipeline) Tokenize(source string) ([]token.Token, error) {
	toks, err := NewScanner(source).Scan()
	if err != nil {
		return nil, err
	}
	toks = p.splitter.Split(toks)
	toks = p.classifier.Classify(toks)
	toks = InsertImplicitMultiply(toks)
	return toks, nil
}
