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

// AssetAdministrationShell is the top-level container identified by a
// URN/URI.
type AssetAdministrationShell struct {
	Extensions                 []Extension                 `json:"extensions,omitempty"`
	Category                   string                      `json:"category,omitempty"`
	IdShort                    string                      `json:"idShort,omitempty"`
	DisplayName                []LangStringNameType        `json:"displayName,omitempty"`
	Description                []LangStringTextType        `json:"description,omitempty"`
	ModelType                  string                      `json:"modelType"`
	Administration             *AdministrativeInformation  `json:"administration,omitempty"`
	ID                         string                      `json:"id"`
	EmbeddedDataSpecifications []EmbeddedDataSpecification `json:"embeddedDataSpecifications,omitempty"`
	DerivedFrom                *Reference                  `json:"derivedFrom,omitempty"`
	AssetInformation           *AssetInformation           `json:"assetInformation"`
	Submodels                  []*Reference                `json:"submodels,omitempty"`
}

// ParseAssetAdministrationShell decodes a Shell document.
func ParseAssetAdministrationShell(data []byte) (*AssetAdministrationShell, error) {
	aas := new(AssetAdministrationShell)
	if err := modelJSON.Unmarshal(data, aas); err != nil {
		return nil, err
	}
	return aas, nil
}

// GlobalAssetID returns the extracted secondary key of a Shell, empty
// when no asset information is present.
func (a *AssetAdministrationShell) GlobalAssetID() string {
	if a.AssetInformation == nil {
		return ""
	}
	return a.AssetInformation.GlobalAssetID
}

// AssertShellRequired checks that the required fields are present.
func AssertShellRequired(obj *AssetAdministrationShell) error {
	if obj.ModelType == "" {
		return &RequiredError{Field: "modelType"}
	}
	if obj.ID == "" {
		return &RequiredError{Field: "id"}
	}
	if obj.AssetInformation == nil {
		return &RequiredError{Field: "assetInformation"}
	}
	return nil
}

// ConceptDescription defines the semantics of elements via data
// specifications.
type ConceptDescription struct {
	Extensions                 []Extension                 `json:"extensions,omitempty"`
	Category                   string                      `json:"category,omitempty"`
	IdShort                    string                      `json:"idShort,omitempty"`
	DisplayName                []LangStringNameType        `json:"displayName,omitempty"`
	Description                []LangStringTextType        `json:"description,omitempty"`
	ModelType                  string                      `json:"modelType"`
	Administration             *AdministrativeInformation  `json:"administration,omitempty"`
	ID                         string                      `json:"id"`
	EmbeddedDataSpecifications []EmbeddedDataSpecification `json:"embeddedDataSpecifications,omitempty"`
	IsCaseOf                   []*Reference                `json:"isCaseOf,omitempty"`
}

// ParseConceptDescription decodes a ConceptDescription document.
func ParseConceptDescription(data []byte) (*ConceptDescription, error) {
	cd := new(ConceptDescription)
	if err := modelJSON.Unmarshal(data, cd); err != nil {
		return nil, err
	}
	return cd, nil
}

// AssertConceptDescriptionRequired checks that the required fields are
// present.
func AssertConceptDescriptionRequired(obj *ConceptDescription) error {
	if obj.ModelType == "" {
		return &RequiredError{Field: "modelType"}
	}
	if obj.ID == "" {
		return &RequiredError{Field: "id"}
	}
	return nil
}
