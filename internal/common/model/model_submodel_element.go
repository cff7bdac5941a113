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
	"encoding/json"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var modelJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// SubmodelElement is the tagged union over all element kinds of a
// Submodel tree. Concrete types are dispatched on the modelType
// discriminator by UnmarshalSubmodelElement.
type SubmodelElement interface {
	GetModelType() string
	GetIdShort() string
	GetSemanticID() *Reference
}

// ModelType strings of the recognized element kinds.
const (
	ModelTypeProperty                     = "Property"
	ModelTypeMultiLanguageProperty        = "MultiLanguageProperty"
	ModelTypeRange                        = "Range"
	ModelTypeFile                         = "File"
	ModelTypeBlob                         = "Blob"
	ModelTypeReferenceElement             = "ReferenceElement"
	ModelTypeRelationshipElement          = "RelationshipElement"
	ModelTypeAnnotatedRelationshipElement = "AnnotatedRelationshipElement"
	ModelTypeEntity                       = "Entity"
	ModelTypeOperation                    = "Operation"
	ModelTypeCapability                   = "Capability"
	ModelTypeBasicEventElement            = "BasicEventElement"
	ModelTypeSubmodelElementCollection    = "SubmodelElementCollection"
	ModelTypeSubmodelElementList          = "SubmodelElementList"
)

// elementFactories maps modelType onto a constructor for the concrete
// type. Unknown model types fall through to UnrecognizedElement.
var elementFactories = map[string]func() SubmodelElement{
	ModelTypeProperty:                     func() SubmodelElement { return &Property{} },
	ModelTypeMultiLanguageProperty:        func() SubmodelElement { return &MultiLanguageProperty{} },
	ModelTypeRange:                        func() SubmodelElement { return &Range{} },
	ModelTypeFile:                         func() SubmodelElement { return &File{} },
	ModelTypeBlob:                         func() SubmodelElement { return &Blob{} },
	ModelTypeReferenceElement:             func() SubmodelElement { return &ReferenceElement{} },
	ModelTypeRelationshipElement:          func() SubmodelElement { return &RelationshipElement{} },
	ModelTypeAnnotatedRelationshipElement: func() SubmodelElement { return &AnnotatedRelationshipElement{} },
	ModelTypeEntity:                       func() SubmodelElement { return &Entity{} },
	ModelTypeOperation:                    func() SubmodelElement { return &Operation{} },
	ModelTypeCapability:                   func() SubmodelElement { return &Capability{} },
	ModelTypeBasicEventElement:            func() SubmodelElement { return &BasicEventElement{} },
	ModelTypeSubmodelElementCollection:    func() SubmodelElement { return &SubmodelElementCollection{} },
	ModelTypeSubmodelElementList:          func() SubmodelElement { return &SubmodelElementList{} },
}

// UnmarshalSubmodelElement creates the appropriate concrete
// SubmodelElement from JSON. Elements with an unknown modelType are
// preserved as an UnrecognizedElement so they round-trip byte-for-byte.
func UnmarshalSubmodelElement(data []byte) (SubmodelElement, error) {
	var raw struct {
		ModelType string `json:"modelType"`
	}
	if err := modelJSON.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to determine modelType: %w", err)
	}
	if raw.ModelType == "" {
		return nil, fmt.Errorf("submodel element without modelType")
	}

	factory, ok := elementFactories[raw.ModelType]
	if !ok {
		unrec := &UnrecognizedElement{}
		if err := unrec.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return unrec, nil
	}

	element := factory()
	if err := modelJSON.Unmarshal(data, element); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", raw.ModelType, err)
	}
	return element, nil
}

// unmarshalElementSlice decodes a polymorphic element array.
func unmarshalElementSlice(raws []json.RawMessage) ([]SubmodelElement, error) {
	if raws == nil {
		return nil, nil
	}
	elements := make([]SubmodelElement, len(raws))
	for i, raw := range raws {
		element, err := UnmarshalSubmodelElement(raw)
		if err != nil {
			return nil, err
		}
		elements[i] = element
	}
	return elements, nil
}

// UnrecognizedElement preserves an element of a future or proprietary
// modelType as opaque bytes.
type UnrecognizedElement struct {
	ModelType string
	IdShort   string
	Raw       json.RawMessage
}

func (u *UnrecognizedElement) GetModelType() string      { return u.ModelType }
func (u *UnrecognizedElement) GetIdShort() string        { return u.IdShort }
func (u *UnrecognizedElement) GetSemanticID() *Reference { return nil }

func (u *UnrecognizedElement) UnmarshalJSON(data []byte) error {
	var probe struct {
		ModelType string `json:"modelType"`
		IdShort   string `json:"idShort"`
	}
	if err := modelJSON.Unmarshal(data, &probe); err != nil {
		return err
	}
	u.ModelType = probe.ModelType
	u.IdShort = probe.IdShort
	u.Raw = append(u.Raw[:0], data...)
	return nil
}

func (u *UnrecognizedElement) MarshalJSON() ([]byte, error) {
	return u.Raw, nil
}
