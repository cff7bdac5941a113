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

package projection

import (
	gen "github.com/titan-aas/titan-go-components/internal/common/model"
)

// Modifier is a projection applied to a stored document at read time.
type Modifier string

const (
	ModifierNone      Modifier = ""
	ModifierValue     Modifier = "$value"
	ModifierMetadata  Modifier = "$metadata"
	ModifierReference Modifier = "$reference"
	ModifierPath      Modifier = "$path"
)

// Level controls subtree depth of a response.
type Level string

const (
	LevelDeep Level = "deep"
	LevelCore Level = "core"
)

// Extent controls Blob value inclusion.
type Extent string

const (
	ExtentWithBlobValue    Extent = "withBlobValue"
	ExtentWithoutBlobValue Extent = "withoutBlobValue"
)

// Options is the full set of read-time transformations requested by a
// client. The zero value requests the untransformed canonical image,
// which the handlers serve over the fast path.
type Options struct {
	Modifier Modifier
	Level    Level
	Extent   Extent
}

// IsFastPath reports whether the stored byte image can be served without
// parsing.
func (o Options) IsFastPath() bool {
	return o.Modifier == ModifierNone &&
		(o.Level == "" || o.Level == LevelDeep) &&
		(o.Extent == "" || o.Extent == ExtentWithBlobValue)
}

// ElementMetadata is the structural skeleton of one element: modelType,
// naming, semantics and typing without any runtime values. Nested
// element metadata is preserved recursively.
type ElementMetadata struct {
	ModelType  string            `json:"modelType"`
	IdShort    string            `json:"idShort,omitempty"`
	Category   string            `json:"category,omitempty"`
	SemanticID *gen.Reference    `json:"semanticId,omitempty"`
	ValueType  string            `json:"valueType,omitempty"`
	Value      []ElementMetadata `json:"value,omitempty"`
}

// SubmodelMetadata is the $metadata projection of a Submodel.
type SubmodelMetadata struct {
	ModelType      string                         `json:"modelType"`
	ID             string                         `json:"id"`
	IdShort        string                         `json:"idShort,omitempty"`
	Category       string                         `json:"category,omitempty"`
	Kind           gen.ModellingKind              `json:"kind,omitempty"`
	SemanticID     *gen.Reference                 `json:"semanticId,omitempty"`
	Administration *gen.AdministrativeInformation `json:"administration,omitempty"`
}

// SubmodelToMetadata produces the $metadata projection: the Submodel
// without its element tree.
func SubmodelToMetadata(sm *gen.Submodel) SubmodelMetadata {
	return SubmodelMetadata{
		ModelType:      sm.ModelType,
		ID:             sm.ID,
		IdShort:        sm.IdShort,
		Category:       sm.Category,
		Kind:           sm.Kind,
		SemanticID:     sm.SemanticID,
		Administration: sm.Administration,
	}
}

// ElementToMetadata produces the recursive structural skeleton of an
// element.
func ElementToMetadata(element gen.SubmodelElement) ElementMetadata {
	md := ElementMetadata{
		ModelType:  element.GetModelType(),
		IdShort:    element.GetIdShort(),
		SemanticID: element.GetSemanticID(),
	}
	switch e := element.(type) {
	case *gen.Property:
		md.Category = e.Category
		md.ValueType = e.ValueType
	case *gen.Range:
		md.Category = e.Category
		md.ValueType = e.ValueType
	case *gen.SubmodelElementCollection:
		md.Category = e.Category
		for _, child := range e.Value {
			md.Value = append(md.Value, ElementToMetadata(child))
		}
	case *gen.SubmodelElementList:
		md.Category = e.Category
		md.ValueType = e.ValueTypeListElement
		for _, child := range e.Value {
			md.Value = append(md.Value, ElementToMetadata(child))
		}
	case *gen.Entity:
		md.Category = e.Category
		for _, stmt := range e.Statements {
			md.Value = append(md.Value, ElementToMetadata(stmt))
		}
	}
	return md
}

// ShellToReference produces the $reference projection of a Shell.
func ShellToReference(aas *gen.AssetAdministrationShell) gen.Reference {
	return gen.Reference{
		Type: gen.ModelReference,
		Keys: []gen.Key{{Type: gen.KeyAssetAdministrationShell, Value: aas.ID}},
	}
}

// SubmodelToReference produces the $reference projection of a Submodel.
func SubmodelToReference(sm *gen.Submodel) gen.Reference {
	return gen.Reference{
		Type: gen.ModelReference,
		Keys: []gen.Key{{Type: gen.KeySubmodel, Value: sm.ID}},
	}
}

// ElementToReference produces the $reference projection of a nested
// element: a two-key ModelReference [Submodel, <element-kind>] whose
// second value is the idShortPath.
func ElementToReference(sm *gen.Submodel, element gen.SubmodelElement, idShortPath string) gen.Reference {
	return gen.Reference{
		Type: gen.ModelReference,
		Keys: []gen.Key{
			{Type: gen.KeySubmodel, Value: sm.ID},
			{Type: elementKeyType(element), Value: idShortPath},
		},
	}
}

func elementKeyType(element gen.SubmodelElement) gen.KeyTypes {
	switch element.GetModelType() {
	case gen.ModelTypeProperty:
		return gen.KeyProperty
	case gen.ModelTypeMultiLanguageProperty:
		return gen.KeyMultiLanguageProperty
	case gen.ModelTypeRange:
		return gen.KeyRange
	case gen.ModelTypeFile:
		return gen.KeyFile
	case gen.ModelTypeBlob:
		return gen.KeyBlob
	case gen.ModelTypeReferenceElement:
		return gen.KeyReferenceElement
	case gen.ModelTypeRelationshipElement, gen.ModelTypeAnnotatedRelationshipElement:
		return gen.KeyRelationshipElement
	case gen.ModelTypeEntity:
		return gen.KeyEntity
	case gen.ModelTypeOperation:
		return gen.KeyOperation
	case gen.ModelTypeCapability:
		return gen.KeyCapability
	case gen.ModelTypeBasicEventElement:
		return gen.KeyBasicEventElement
	case gen.ModelTypeSubmodelElementCollection:
		return gen.KeySubmodelElementCollection
	case gen.ModelTypeSubmodelElementList:
		return gen.KeySubmodelElementList
	default:
		return gen.KeySubmodelElement
	}
}

// PathResult is the $path projection of a resolved element.
type PathResult struct {
	IdShortPath string `json:"idShortPath"`
}

// ApplyLevel applies level=core: a shallow copy of the Submodel without
// the submodelElements subtree. level=deep returns the input unchanged.
func ApplyLevel(sm *gen.Submodel, level Level) *gen.Submodel {
	if level != LevelCore {
		return sm
	}
	core := *sm
	core.SubmodelElements = nil
	return &core
}

// ApplyExtent applies extent=withoutBlobValue: recursively drops the
// value field of every Blob element. The input tree is not mutated.
func ApplyExtent(sm *gen.Submodel, extent Extent) *gen.Submodel {
	if extent != ExtentWithoutBlobValue {
		return sm
	}
	stripped := *sm
	stripped.SubmodelElements = stripBlobValues(sm.SubmodelElements)
	return &stripped
}

func stripBlobValues(elements []gen.SubmodelElement) []gen.SubmodelElement {
	if elements == nil {
		return nil
	}
	out := make([]gen.SubmodelElement, len(elements))
	for i, element := range elements {
		if blob, ok := element.(*gen.Blob); ok {
			bare := *blob
			bare.Value = ""
			out[i] = &bare
			continue
		}
		if children, ok := gen.ChildrenOf(element); ok {
			// Containers are copied shallowly so the stored tree stays
			// untouched.
			copied := copyContainer(element)
			gen.SetChildren(copied, stripBlobValues(children))
			out[i] = copied
			continue
		}
		out[i] = element
	}
	return out
}

func copyContainer(element gen.SubmodelElement) gen.SubmodelElement {
	switch e := element.(type) {
	case *gen.SubmodelElementCollection:
		c := *e
		return &c
	case *gen.SubmodelElementList:
		c := *e
		return &c
	case *gen.Entity:
		c := *e
		return &c
	case *gen.AnnotatedRelationshipElement:
		c := *e
		return &c
	default:
		return element
	}
}
