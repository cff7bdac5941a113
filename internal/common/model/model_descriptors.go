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

// Endpoint advertises where a registered entity is served.
type Endpoint struct {
	Interface           string              `json:"interface"`
	ProtocolInformation ProtocolInformation `json:"protocolInformation"`
}

// ProtocolInformation carries the endpoint address details.
type ProtocolInformation struct {
	Href                    string   `json:"href"`
	EndpointProtocol        string   `json:"endpointProtocol,omitempty"`
	EndpointProtocolVersion []string `json:"endpointProtocolVersion,omitempty"`
	Subprotocol             string   `json:"subprotocol,omitempty"`
	SubprotocolBody         string   `json:"subprotocolBody,omitempty"`
}

// SubmodelDescriptor is the Registry-side pointer to a Submodel served
// elsewhere. It shares the lifecycle invariants of the entity itself.
type SubmodelDescriptor struct {
	Description             []LangStringTextType       `json:"description,omitempty"`
	DisplayName             []LangStringNameType       `json:"displayName,omitempty"`
	Administration          *AdministrativeInformation `json:"administration,omitempty"`
	IdShort                 string                     `json:"idShort,omitempty"`
	ID                      string                     `json:"id"`
	SemanticID              *Reference                 `json:"semanticId,omitempty"`
	SupplementalSemanticIds []*Reference               `json:"supplementalSemanticId,omitempty"`
	Endpoints               []Endpoint                 `json:"endpoints,omitempty"`
}

// AssetAdministrationShellDescriptor is the Registry-side pointer to a
// Shell served elsewhere.
type AssetAdministrationShellDescriptor struct {
	Description         []LangStringTextType       `json:"description,omitempty"`
	DisplayName         []LangStringNameType       `json:"displayName,omitempty"`
	Administration      *AdministrativeInformation `json:"administration,omitempty"`
	AssetKind           AssetKind                  `json:"assetKind,omitempty"`
	AssetType           string                     `json:"assetType,omitempty"`
	GlobalAssetID       string                     `json:"globalAssetId,omitempty"`
	IdShort             string                     `json:"idShort,omitempty"`
	ID                  string                     `json:"id"`
	SpecificAssetIds    []SpecificAssetID          `json:"specificAssetIds,omitempty"`
	SubmodelDescriptors []SubmodelDescriptor       `json:"submodelDescriptors,omitempty"`
	Endpoints           []Endpoint                 `json:"endpoints,omitempty"`
}

// ParseShellDescriptor decodes a Shell descriptor document.
func ParseShellDescriptor(data []byte) (*AssetAdministrationShellDescriptor, error) {
	d := new(AssetAdministrationShellDescriptor)
	if err := modelJSON.Unmarshal(data, d); err != nil {
		return nil, err
	}
	return d, nil
}

// ParseSubmodelDescriptor decodes a Submodel descriptor document.
func ParseSubmodelDescriptor(data []byte) (*SubmodelDescriptor, error) {
	d := new(SubmodelDescriptor)
	if err := modelJSON.Unmarshal(data, d); err != nil {
		return nil, err
	}
	return d, nil
}
