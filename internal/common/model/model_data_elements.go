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

// Property is a single-valued data element.
type Property struct {
	Extensions                 []Extension                 `json:"extensions,omitempty"`
	Category                   string                      `json:"category,omitempty"`
	IdShort                    string                      `json:"idShort,omitempty"`
	DisplayName                []LangStringNameType        `json:"displayName,omitempty"`
	Description                []LangStringTextType        `json:"description,omitempty"`
	ModelType                  string                      `json:"modelType"`
	SemanticID                 *Reference                  `json:"semanticId,omitempty"`
	SupplementalSemanticIds    []*Reference                `json:"supplementalSemanticIds,omitempty"`
	Qualifiers                 []Qualifier                 `json:"qualifiers,omitempty"`
	EmbeddedDataSpecifications []EmbeddedDataSpecification `json:"embeddedDataSpecifications,omitempty"`
	ValueType                  string                      `json:"valueType"`
	Value                      string                      `json:"value,omitempty"`
	ValueID                    *Reference                  `json:"valueId,omitempty"`
}

func (p *Property) GetModelType() string      { return p.ModelType }
func (p *Property) GetIdShort() string        { return p.IdShort }
func (p *Property) GetSemanticID() *Reference { return p.SemanticID }

// MultiLanguageProperty is a data element with language-tagged values.
type MultiLanguageProperty struct {
	Extensions                 []Extension                 `json:"extensions,omitempty"`
	Category                   string                      `json:"category,omitempty"`
	IdShort                    string                      `json:"idShort,omitempty"`
	DisplayName                []LangStringNameType        `json:"displayName,omitempty"`
	Description                []LangStringTextType        `json:"description,omitempty"`
	ModelType                  string                      `json:"modelType"`
	SemanticID                 *Reference                  `json:"semanticId,omitempty"`
	SupplementalSemanticIds    []*Reference                `json:"supplementalSemanticIds,omitempty"`
	Qualifiers                 []Qualifier                 `json:"qualifiers,omitempty"`
	EmbeddedDataSpecifications []EmbeddedDataSpecification `json:"embeddedDataSpecifications,omitempty"`
	Value                      []LangStringTextType        `json:"value,omitempty"`
	ValueID                    *Reference                  `json:"valueId,omitempty"`
}

func (m *MultiLanguageProperty) GetModelType() string      { return m.ModelType }
func (m *MultiLanguageProperty) GetIdShort() string        { return m.IdShort }
func (m *MultiLanguageProperty) GetSemanticID() *Reference { return m.SemanticID }

// Range is a data element with min/max bounds.
type Range struct {
	Extensions                 []Extension                 `json:"extensions,omitempty"`
	Category                   string                      `json:"category,omitempty"`
	IdShort                    string                      `json:"idShort,omitempty"`
	DisplayName                []LangStringNameType        `json:"displayName,omitempty"`
	Description                []LangStringTextType        `json:"description,omitempty"`
	ModelType                  string                      `json:"modelType"`
	SemanticID                 *Reference                  `json:"semanticId,omitempty"`
	SupplementalSemanticIds    []*Reference                `json:"supplementalSemanticIds,omitempty"`
	Qualifiers                 []Qualifier                 `json:"qualifiers,omitempty"`
	EmbeddedDataSpecifications []EmbeddedDataSpecification `json:"embeddedDataSpecifications,omitempty"`
	ValueType                  string                      `json:"valueType"`
	Min                        string                      `json:"min,omitempty"`
	Max                        string                      `json:"max,omitempty"`
}

func (r *Range) GetModelType() string      { return r.ModelType }
func (r *Range) GetIdShort() string        { return r.IdShort }
func (r *Range) GetSemanticID() *Reference { return r.SemanticID }

// File is a data element whose value is a URI plus content type. Values
// above the blob externalization threshold point into the blob store.
type File struct {
	Extensions                 []Extension                 `json:"extensions,omitempty"`
	Category                   string                      `json:"category,omitempty"`
	IdShort                    string                      `json:"idShort,omitempty"`
	DisplayName                []LangStringNameType        `json:"displayName,omitempty"`
	Description                []LangStringTextType        `json:"description,omitempty"`
	ModelType                  string                      `json:"modelType"`
	SemanticID                 *Reference                  `json:"semanticId,omitempty"`
	SupplementalSemanticIds    []*Reference                `json:"supplementalSemanticIds,omitempty"`
	Qualifiers                 []Qualifier                 `json:"qualifiers,omitempty"`
	EmbeddedDataSpecifications []EmbeddedDataSpecification `json:"embeddedDataSpecifications,omitempty"`
	Value                      string                      `json:"value,omitempty"`
	ContentType                string                      `json:"contentType"`
}

func (f *File) GetModelType() string      { return f.ModelType }
func (f *File) GetIdShort() string        { return f.IdShort }
func (f *File) GetSemanticID() *Reference { return f.SemanticID }

// Blob is a data element carrying base64 content inline, or a blob-store
// URI once externalized.
type Blob struct {
	Extensions                 []Extension                 `json:"extensions,omitempty"`
	Category                   string                      `json:"category,omitempty"`
	IdShort                    string                      `json:"idShort,omitempty"`
	DisplayName                []LangStringNameType        `json:"displayName,omitempty"`
	Description                []LangStringTextType        `json:"description,omitempty"`
	ModelType                  string                      `json:"modelType"`
	SemanticID                 *Reference                  `json:"semanticId,omitempty"`
	SupplementalSemanticIds    []*Reference                `json:"supplementalSemanticIds,omitempty"`
	Qualifiers                 []Qualifier                 `json:"qualifiers,omitempty"`
	EmbeddedDataSpecifications []EmbeddedDataSpecification `json:"embeddedDataSpecifications,omitempty"`
	Value                      string                      `json:"value,omitempty"`
	ContentType                string                      `json:"contentType"`
}

func (b *Blob) GetModelType() string      { return b.ModelType }
func (b *Blob) GetIdShort() string        { return b.IdShort }
func (b *Blob) GetSemanticID() *Reference { return b.SemanticID }

// ReferenceElement is a data element whose value is a Reference.
type ReferenceElement struct {
	Extensions                 []Extension                 `json:"extensions,omitempty"`
	Category                   string                      `json:"category,omitempty"`
	IdShort                    string                      `json:"idShort,omitempty"`
	DisplayName                []LangStringNameType        `json:"displayName,omitempty"`
	Description                []LangStringTextType        `json:"description,omitempty"`
	ModelType                  string                      `json:"modelType"`
	SemanticID                 *Reference                  `json:"semanticId,omitempty"`
	SupplementalSemanticIds    []*Reference                `json:"supplementalSemanticIds,omitempty"`
	Qualifiers                 []Qualifier                 `json:"qualifiers,omitempty"`
	EmbeddedDataSpecifications []EmbeddedDataSpecification `json:"embeddedDataSpecifications,omitempty"`
	Value                      *Reference                  `json:"value,omitempty"`
}

func (r *ReferenceElement) GetModelType() string      { return r.ModelType }
func (r *ReferenceElement) GetIdShort() string        { return r.IdShort }
func (r *ReferenceElement) GetSemanticID() *Reference { return r.SemanticID }
