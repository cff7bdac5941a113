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

// Submodel is a named bag of elements hanging off a Shell, typed by a
// semantic reference.
type Submodel struct {
	Extensions                 []Extension                 `json:"extensions,omitempty"`
	Category                   string                      `json:"category,omitempty"`
	IdShort                    string                      `json:"idShort,omitempty"`
	DisplayName                []LangStringNameType        `json:"displayName,omitempty"`
	Description                []LangStringTextType        `json:"description,omitempty"`
	ModelType                  string                      `json:"modelType"`
	Administration             *AdministrativeInformation  `json:"administration,omitempty"`
	ID                         string                      `json:"id"`
	Kind                       ModellingKind               `json:"kind,omitempty"`
	SemanticID                 *Reference                  `json:"semanticId,omitempty"`
	SupplementalSemanticIds    []*Reference                `json:"supplementalSemanticIds,omitempty"`
	Qualifiers                 []Qualifier                 `json:"qualifiers,omitempty"`
	EmbeddedDataSpecifications []EmbeddedDataSpecification `json:"embeddedDataSpecifications,omitempty"`
	SubmodelElements           []SubmodelElement           `json:"submodelElements,omitempty"`
}

// UnmarshalJSON handles the polymorphic submodelElements array.
func (s *Submodel) UnmarshalJSON(data []byte) error {
	type Alias Submodel
	aux := &struct {
		SubmodelElements []json.RawMessage `json:"submodelElements,omitempty"`
		*Alias
	}{Alias: (*Alias)(s)}
	if err := modelJSON.Unmarshal(data, aux); err != nil {
		return err
	}
	elements, err := unmarshalElementSlice(aux.SubmodelElements)
	if err != nil {
		return err
	}
	s.SubmodelElements = elements
	return nil
}

// ParseSubmodel decodes and structurally validates a Submodel document.
func ParseSubmodel(data []byte) (*Submodel, error) {
	sm := new(Submodel)
	if err := modelJSON.Unmarshal(data, sm); err != nil {
		return nil, err
	}
	return sm, nil
}

// AssertSubmodelRequired checks that the required fields are present.
func AssertSubmodelRequired(obj *Submodel) error {
	if obj.ModelType == "" {
		return &RequiredError{Field: "modelType"}
	}
	if obj.ID == "" {
		return &RequiredError{Field: "id"}
	}
	return nil
}

// RequiredError is reported when a mandatory field is zero-valued.
type RequiredError struct {
	Field string
}

func (e *RequiredError) Error() string {
	return "required field is missing or empty: " + e.Field
}
