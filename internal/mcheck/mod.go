// Package main provides a custom check for "go vet" that reports the comments
// longer than a maximum length.
//
// It can be used like the following:
//
//	go build ./internal/mcheck && go vet -vettool=./mcheck ./...
//
// Generated files and "//go:" directives are ignored.
package main

import (
	"go/ast"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/unitchecker"
)

// DefaultMaxLen is the default maximum length of a comment line.
const DefaultMaxLen = 80

var maxLen = DefaultMaxLen

var commentAnalyzer = &analysis.Analyzer{
	Name: "commentlen",
	Doc:  "checks the length of the comment lines",
	Run:  run,
}

func init() {
	commentAnalyzer.Flags.IntVar(&maxLen, "maxlen", DefaultMaxLen, "maximum length of a comment line")
}

func main() {
	unitchecker.Main(commentAnalyzer)
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		if isGenerated(file.Comments) {
			continue
		}

		for _, group := range file.Comments {
			for _, comment := range group.List {
				for _, line := range strings.Split(comment.Text, "\n") {
					if strings.HasPrefix(line, "//go:") {
						continue
					}

					if len(line) > maxLen {
						pass.Reportf(comment.Pos(), "comment too long (%d > %d)", len(line), maxLen)
					}
				}
			}
		}
	}

	return nil, nil
}

func isGenerated(groups []*ast.CommentGroup) bool {
	if len(groups) == 0 || len(groups[0].List) == 0 {
		return false
	}

	return strings.HasPrefix(groups[0].List[0].Text, "// Code generated")
}
