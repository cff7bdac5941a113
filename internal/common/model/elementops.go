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

import "encoding/json"

// Element tree operations. Every operation returns a new Submodel and
// leaves the input untouched, so callers can retry or diff against the
// previous document.

const errElementExists = pathError("element already exists")

// IsElementAlreadyExists reports a duplicate idShort insertion.
func IsElementAlreadyExists(err error) bool { return err == errElementExists }

// CloneSubmodel deep-copies a submodel through its canonical encoding.
func CloneSubmodel(sm *Submodel) (*Submodel, error) {
	data, err := modelJSON.Marshal(sm)
	if err != nil {
		return nil, err
	}
	return ParseSubmodel(data)
}

// InsertElement appends the element to the root submodelElements when
// parentPath is empty, otherwise to the container at parentPath. A
// duplicate idShort in a collection, entity or annotated relationship
// fails with an already-exists error; an ordered list permits
// duplicates and ignores idShort.
func InsertElement(sm *Submodel, parentPath string, element SubmodelElement) (*Submodel, error) {
	out, err := CloneSubmodel(sm)
	if err != nil {
		return nil, err
	}
	if parentPath == "" {
		if hasDuplicateIdShort(out.SubmodelElements, element) {
			return nil, errElementExists
		}
		out.SubmodelElements = append(out.SubmodelElements, element)
		return out, nil
	}
	parent, err := ResolveElement(out, parentPath)
	if err != nil {
		return nil, err
	}
	children, ok := ChildrenOf(parent)
	if !ok {
		return nil, errElementNotFound
	}
	if _, isList := parent.(*SubmodelElementList); !isList {
		if hasDuplicateIdShort(children, element) {
			return nil, errElementExists
		}
	}
	SetChildren(parent, append(children, element))
	return out, nil
}

// ReplaceElement swaps the element at path for the given one.
func ReplaceElement(sm *Submodel, path string, element SubmodelElement) (*Submodel, error) {
	out, steps, err := cloneAndParse(sm, path)
	if err != nil {
		return nil, err
	}
	parent, children, idx, err := locate(out, steps)
	if err != nil {
		return nil, err
	}
	children[idx] = element
	commitChildren(out, parent, children)
	return out, nil
}

// PatchElement shallow-merges the given fields into the element at
// path. The merged document is re-dispatched through the modelType
// factory, so a patch cannot leave the element in a shape its type does
// not allow.
func PatchElement(sm *Submodel, path string, updates map[string]json.RawMessage) (*Submodel, error) {
	out, steps, err := cloneAndParse(sm, path)
	if err != nil {
		return nil, err
	}
	parent, children, idx, err := locate(out, steps)
	if err != nil {
		return nil, err
	}
	raw, err := modelJSON.Marshal(children[idx])
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := modelJSON.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	for k, v := range updates {
		fields[k] = v
	}
	merged, err := modelJSON.Marshal(fields)
	if err != nil {
		return nil, err
	}
	patched, err := UnmarshalSubmodelElement(merged)
	if err != nil {
		return nil, err
	}
	children[idx] = patched
	commitChildren(out, parent, children)
	return out, nil
}

// UpdateElementValue patches only the value field of the element at
// path.
func UpdateElementValue(sm *Submodel, path string, value json.RawMessage) (*Submodel, error) {
	return PatchElement(sm, path, map[string]json.RawMessage{"value": value})
}

// DeleteElement removes the element at path.
func DeleteElement(sm *Submodel, path string) (*Submodel, error) {
	out, steps, err := cloneAndParse(sm, path)
	if err != nil {
		return nil, err
	}
	parent, children, idx, err := locate(out, steps)
	if err != nil {
		return nil, err
	}
	children = append(children[:idx], children[idx+1:]...)
	commitChildren(out, parent, children)
	return out, nil
}

func cloneAndParse(sm *Submodel, path string) (*Submodel, []PathStep, error) {
	steps, err := ParseIdShortPath(path)
	if err != nil {
		return nil, nil, err
	}
	out, err := CloneSubmodel(sm)
	if err != nil {
		return nil, nil, err
	}
	return out, steps, nil
}

// locate walks to the element at steps and returns its parent (nil for
// a root child), the child slice holding it, and its index.
func locate(sm *Submodel, steps []PathStep) (SubmodelElement, []SubmodelElement, int, error) {
	children := sm.SubmodelElements
	var parent SubmodelElement
	for i, step := range steps {
		idx := -1
		if step.IsIndex {
			if _, ok := parent.(*SubmodelElementList); !ok {
				return nil, nil, 0, errElementNotFound
			}
			if step.Index >= len(children) {
				return nil, nil, 0, errElementNotFound
			}
			idx = step.Index
		} else {
			for j, child := range children {
				if child.GetIdShort() == step.IdShort {
					idx = j
					break
				}
			}
			if idx < 0 {
				return nil, nil, 0, errElementNotFound
			}
		}
		if i == len(steps)-1 {
			return parent, children, idx, nil
		}
		match := children[idx]
		grandchildren, ok := ChildrenOf(match)
		if !ok {
			return nil, nil, 0, errElementNotFound
		}
		parent = match
		children = grandchildren
	}
	return nil, nil, 0, errElementNotFound
}

func commitChildren(sm *Submodel, parent SubmodelElement, children []SubmodelElement) {
	if parent == nil {
		sm.SubmodelElements = children
		return
	}
	SetChildren(parent, children)
}

func hasDuplicateIdShort(children []SubmodelElement, element SubmodelElement) bool {
	idShort := element.GetIdShort()
	if idShort == "" {
		return false
	}
	for _, child := range children {
		if child.GetIdShort() == idShort {
			return true
		}
	}
	return false
}
