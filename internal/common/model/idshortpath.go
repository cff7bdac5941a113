/*******************************************************************************
* Copyright (C) 2026 the Titan-AAS Authors
*
* Permission is hereby granted, free of charge, to any person obtaining
* a copy of this software and associated documentation files (the
* "Software"), to deal in the Software without restriction, including
* without limitation the rights to use, copy, modify, merge, publish,
* distribute, sublicense, and/or sell copies of the Software, and to
* permit persons to whom the Software is furnished to do so, subject to
* the following conditions:
*
* The above copyright notice and this permission notice shall be
* included in all copies or substantial portions of the Software.
*
* THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
* EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
* MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
* NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE
* LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION
* OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION
* WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*
* SPDX-License-Identifier: MIT
******************************************************************************/

package model

import (
	"strconv"
	"strings"
)

// PathStep is one resolved step of an idShortPath: either an idShort
// segment or a zero-based index into an ordered SubmodelElementList.
type PathStep struct {
	IdShort string
	Index   int
	IsIndex bool
}

// ParseIdShortPath parses the grammar
//
//	segment ( ("." segment) | ("[" integer "]") )*
//
// where segment is an idShort. Returns the step sequence or an error for
// malformed input (empty segments, unbalanced brackets, non-numeric
// indices).
func ParseIdShortPath(path string) ([]PathStep, error) {
	if path == "" {
		return nil, errMalformedPath
	}
	var steps []PathStep
	rest := path
	expectSegment := true
	for rest != "" {
		switch {
		case rest[0] == '[':
			if expectSegment {
				return nil, errMalformedPath
			}
			close := strings.IndexByte(rest, ']')
			if close < 1 {
				return nil, errMalformedPath
			}
			index, err := strconv.Atoi(rest[1:close])
			if err != nil || index < 0 {
				return nil, errMalformedPath
			}
			steps = append(steps, PathStep{Index: index, IsIndex: true})
			rest = rest[close+1:]
		case rest[0] == '.':
			if expectSegment {
				return nil, errMalformedPath
			}
			rest = rest[1:]
			expectSegment = true
		default:
			if !expectSegment {
				return nil, errMalformedPath
			}
			end := strings.IndexAny(rest, ".[")
			if end == -1 {
				end = len(rest)
			}
			if end == 0 {
				return nil, errMalformedPath
			}
			steps = append(steps, PathStep{IdShort: rest[:end]})
			rest = rest[end:]
			expectSegment = false
		}
	}
	if expectSegment {
		return nil, errMalformedPath
	}
	return steps, nil
}

type pathError string

func (e pathError) Error() string { return string(e) }

const (
	errMalformedPath   = pathError("malformed idShortPath")
	errElementNotFound = pathError("element not found")
)

// IsMalformedPath reports whether err came from ParseIdShortPath.
func IsMalformedPath(err error) bool { return err == errMalformedPath }

// IsElementNotFound reports whether err is a navigation miss.
func IsElementNotFound(err error) bool { return err == errElementNotFound }

// ChildrenOf returns the child elements of a container element and
// whether the element is a container at all. SubmodelElementCollection
// and SubmodelElementList use value; Entity statements and
// AnnotatedRelationshipElement annotations are also navigable.
func ChildrenOf(element SubmodelElement) ([]SubmodelElement, bool) {
	switch e := element.(type) {
	case *SubmodelElementCollection:
		return e.Value, true
	case *SubmodelElementList:
		return e.Value, true
	case *Entity:
		return e.Statements, true
	case *AnnotatedRelationshipElement:
		return e.Annotations, true
	default:
		return nil, false
	}
}

// SetChildren replaces the child slice of a container element.
func SetChildren(element SubmodelElement, children []SubmodelElement) bool {
	switch e := element.(type) {
	case *SubmodelElementCollection:
		e.Value = children
	case *SubmodelElementList:
		e.Value = children
	case *Entity:
		e.Statements = children
	case *AnnotatedRelationshipElement:
		e.Annotations = children
	default:
		return false
	}
	return true
}

// ResolveElement walks the Submodel tree along an idShortPath and
// returns the addressed element. Any mismatch yields an element-not-found
// error; a malformed path yields a malformed-path error.
func ResolveElement(sm *Submodel, path string) (SubmodelElement, error) {
	steps, err := ParseIdShortPath(path)
	if err != nil {
		return nil, err
	}
	return resolveSteps(sm.SubmodelElements, nil, steps)
}

func resolveSteps(children []SubmodelElement, parent SubmodelElement, steps []PathStep) (SubmodelElement, error) {
	if len(steps) == 0 {
		return nil, errElementNotFound
	}
	step := steps[0]
	var match SubmodelElement
	if step.IsIndex {
		// Index addressing is only defined on ordered lists.
		if _, ok := parent.(*SubmodelElementList); !ok {
			return nil, errElementNotFound
		}
		if step.Index >= len(children) {
			return nil, errElementNotFound
		}
		match = children[step.Index]
	} else {
		for _, child := range children {
			if child.GetIdShort() == step.IdShort {
				match = child
				break
			}
		}
		if match == nil {
			return nil, errElementNotFound
		}
	}
	if len(steps) == 1 {
		return match, nil
	}
	grandchildren, ok := ChildrenOf(match)
	if !ok {
		return nil, errElementNotFound
	}
	return resolveSteps(grandchildren, match, steps[1:])
}
