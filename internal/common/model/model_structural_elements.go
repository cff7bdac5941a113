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

// SubmodelElementCollection is an unordered container keyed by the
// children's idShort. Duplicate idShorts are rejected on insert.
type SubmodelElementCollection struct {
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
	Value                      []SubmodelElement           `json:"value,omitempty"`
}

func (c *SubmodelElementCollection) GetModelType() string      { return c.ModelType }
func (c *SubmodelElementCollection) GetIdShort() string        { return c.IdShort }
func (c *SubmodelElementCollection) GetSemanticID() *Reference { return c.SemanticID }

// UnmarshalJSON handles the polymorphic children of the collection.
func (c *SubmodelElementCollection) UnmarshalJSON(data []byte) error {
	type Alias SubmodelElementCollection
	aux := &struct {
		Value []json.RawMessage `json:"value,omitempty"`
		*Alias
	}{Alias: (*Alias)(c)}
	if err := modelJSON.Unmarshal(data, aux); err != nil {
		return err
	}
	value, err := unmarshalElementSlice(aux.Value)
	if err != nil {
		return err
	}
	c.Value = value
	return nil
}

// SubmodelElementList is an ordered container addressed by index.
// Children's idShorts are ignored and duplicates are permitted.
type SubmodelElementList struct {
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
	OrderRelevant              *bool                       `json:"orderRelevant,omitempty"`
	SemanticIDListElement      *Reference                  `json:"semanticIdListElement,omitempty"`
	TypeValueListElement       string                      `json:"typeValueListElement,omitempty"`
	ValueTypeListElement       string                      `json:"valueTypeListElement,omitempty"`
	Value                      []SubmodelElement           `json:"value,omitempty"`
}

func (l *SubmodelElementList) GetModelType() string      { return l.ModelType }
func (l *SubmodelElementList) GetIdShort() string        { return l.IdShort }
func (l *SubmodelElementList) GetSemanticID() *Reference { return l.SemanticID }

// UnmarshalJSON handles the polymorphic children of the list.
func (l *SubmodelElementList) UnmarshalJSON(data []byte) error {
	type Alias SubmodelElementList
	aux := &struct {
		Value []json.RawMessage `json:"value,omitempty"`
		*Alias
	}{Alias: (*Alias)(l)}
	if err := modelJSON.Unmarshal(data, aux); err != nil {
		return err
	}
	value, err := unmarshalElementSlice(aux.Value)
	if err != nil {
		return err
	}
	l.Value = value
	return nil
}

// RelationshipElement relates two referables.
type RelationshipElement struct {
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
	First                      *Reference                  `json:"first"`
	Second                     *Reference                  `json:"second"`
}

func (r *RelationshipElement) GetModelType() string      { return r.ModelType }
func (r *RelationshipElement) GetIdShort() string        { return r.IdShort }
func (r *RelationshipElement) GetSemanticID() *Reference { return r.SemanticID }

// AnnotatedRelationshipElement is a relationship with data element
// annotations.
type AnnotatedRelationshipElement struct {
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
	First                      *Reference                  `json:"first"`
	Second                     *Reference                  `json:"second"`
	Annotations                []SubmodelElement           `json:"annotations,omitempty"`
}

func (a *AnnotatedRelationshipElement) GetModelType() string      { return a.ModelType }
func (a *AnnotatedRelationshipElement) GetIdShort() string        { return a.IdShort }
func (a *AnnotatedRelationshipElement) GetSemanticID() *Reference { return a.SemanticID }

// UnmarshalJSON handles the polymorphic annotations.
func (a *AnnotatedRelationshipElement) UnmarshalJSON(data []byte) error {
	type Alias AnnotatedRelationshipElement
	aux := &struct {
		Annotations []json.RawMessage `json:"annotations,omitempty"`
		*Alias
	}{Alias: (*Alias)(a)}
	if err := modelJSON.Unmarshal(data, aux); err != nil {
		return err
	}
	annotations, err := unmarshalElementSlice(aux.Annotations)
	if err != nil {
		return err
	}
	a.Annotations = annotations
	return nil
}

// Entity represents an asset entity with statements.
type Entity struct {
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
	Statements                 []SubmodelElement           `json:"statements,omitempty"`
	EntityType                 string                      `json:"entityType"`
	GlobalAssetID              string                      `json:"globalAssetId,omitempty"`
	SpecificAssetIds           []SpecificAssetID           `json:"specificAssetIds,omitempty"`
}

func (e *Entity) GetModelType() string      { return e.ModelType }
func (e *Entity) GetIdShort() string        { return e.IdShort }
func (e *Entity) GetSemanticID() *Reference { return e.SemanticID }

// UnmarshalJSON handles the polymorphic statements.
func (e *Entity) UnmarshalJSON(data []byte) error {
	type Alias Entity
	aux := &struct {
		Statements []json.RawMessage `json:"statements,omitempty"`
		*Alias
	}{Alias: (*Alias)(e)}
	if err := modelJSON.Unmarshal(data, aux); err != nil {
		return err
	}
	statements, err := unmarshalElementSlice(aux.Statements)
	if err != nil {
		return err
	}
	e.Statements = statements
	return nil
}

// Operation is an invokable element with input/output variables.
type Operation struct {
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
	InputVariables             []OperationVariable         `json:"inputVariables,omitempty"`
	OutputVariables            []OperationVariable         `json:"outputVariables,omitempty"`
	InoutputVariables          []OperationVariable         `json:"inoutputVariables,omitempty"`
}

func (o *Operation) GetModelType() string      { return o.ModelType }
func (o *Operation) GetIdShort() string        { return o.IdShort }
func (o *Operation) GetSemanticID() *Reference { return o.SemanticID }

// OperationVariable wraps a single operation parameter.
type OperationVariable struct {
	Value SubmodelElement `json:"value"`
}

// UnmarshalJSON dispatches the polymorphic wrapped element.
func (v *OperationVariable) UnmarshalJSON(data []byte) error {
	var aux struct {
		Value json.RawMessage `json:"value"`
	}
	if err := modelJSON.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Value == nil {
		return nil
	}
	value, err := UnmarshalSubmodelElement(aux.Value)
	if err != nil {
		return err
	}
	v.Value = value
	return nil
}

// Capability marks that the asset can perform some function.
type Capability struct {
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
}

func (c *Capability) GetModelType() string      { return c.ModelType }
func (c *Capability) GetIdShort() string        { return c.IdShort }
func (c *Capability) GetSemanticID() *Reference { return c.SemanticID }

// BasicEventElement declares an event channel on a referable.
type BasicEventElement struct {
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
	Observed                   *Reference                  `json:"observed"`
	Direction                  string                      `json:"direction"`
	State                      string                      `json:"state"`
	MessageTopic               string                      `json:"messageTopic,omitempty"`
	MessageBroker              *Reference                  `json:"messageBroker,omitempty"`
	LastUpdate                 string                      `json:"lastUpdate,omitempty"`
	MinInterval                string                      `json:"minInterval,omitempty"`
	MaxInterval                string                      `json:"maxInterval,omitempty"`
}

func (b *BasicEventElement) GetModelType() string      { return b.ModelType }
func (b *BasicEventElement) GetIdShort() string        { return b.IdShort }
func (b *BasicEventElement) GetSemanticID() *Reference { return b.SemanticID }
