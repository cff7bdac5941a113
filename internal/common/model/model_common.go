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

// Package model contains the IDTA-01001 data model types used by the
// Titan-AAS repositories and registries. Polymorphic submodel element
// collections are expressed as a tagged union dispatched on the
// modelType discriminator; elements with an unknown modelType are
// preserved verbatim so forward-compatible documents round-trip
// unchanged.
package model

// ReferenceTypes discriminates External and Model references.
type ReferenceTypes string

const (
	ExternalReference ReferenceTypes = "ExternalReference"
	ModelReference    ReferenceTypes = "ModelReference"
)

// KeyTypes enumerates the referable kinds a Reference key can point at.
type KeyTypes string

const (
	KeyAssetAdministrationShell KeyTypes = "AssetAdministrationShell"
	KeySubmodel                 KeyTypes = "Submodel"
	KeyConceptDescription       KeyTypes = "ConceptDescription"
	KeyGlobalReference          KeyTypes = "GlobalReference"
	KeyProperty                 KeyTypes = "Property"
	KeyMultiLanguageProperty    KeyTypes = "MultiLanguageProperty"
	KeyRange                    KeyTypes = "Range"
	KeyFile                     KeyTypes = "File"
	KeyBlob                     KeyTypes = "Blob"
	KeyReferenceElement         KeyTypes = "ReferenceElement"
	KeyRelationshipElement      KeyTypes = "RelationshipElement"
	KeyEntity                   KeyTypes = "Entity"
	KeyOperation                KeyTypes = "Operation"
	KeyCapability               KeyTypes = "Capability"
	KeyBasicEventElement        KeyTypes = "BasicEventElement"
	KeySubmodelElementCollection KeyTypes = "SubmodelElementCollection"
	KeySubmodelElementList       KeyTypes = "SubmodelElementList"
	KeySubmodelElement           KeyTypes = "SubmodelElement"
)

// Key is one segment of a Reference chain.
type Key struct {
	Type  KeyTypes `json:"type"`
	Value string   `json:"value"`
}

// Reference points at a referable, either externally (by global id) or
// inside the model (by key chain).
type Reference struct {
	Type               ReferenceTypes `json:"type"`
	Keys               []Key          `json:"keys"`
	ReferredSemanticID *Reference     `json:"referredSemanticId,omitempty"`
}

// LastKeyValue returns the value of the final key, the conventional
// lookup key for semantic-id matching. Empty when the chain is empty.
func (r *Reference) LastKeyValue() string {
	if r == nil || len(r.Keys) == 0 {
		return ""
	}
	return r.Keys[len(r.Keys)-1].Value
}

// LangStringNameType is a language-tagged short name.
type LangStringNameType struct {
	Language string `json:"language"`
	Text     string `json:"text"`
}

// LangStringTextType is a language-tagged text.
type LangStringTextType struct {
	Language string `json:"language"`
	Text     string `json:"text"`
}

// ModellingKind distinguishes templates from instances.
type ModellingKind string

const (
	ModellingKindTemplate ModellingKind = "Template"
	ModellingKindInstance ModellingKind = "Instance"
)

// AssetKind distinguishes asset types and instances.
type AssetKind string

const (
	AssetKindType          AssetKind = "Type"
	AssetKindInstance      AssetKind = "Instance"
	AssetKindNotApplicable AssetKind = "NotApplicable"
)

// Qualifier attaches a typed qualification to an element.
type Qualifier struct {
	Kind       string     `json:"kind,omitempty"`
	Type       string     `json:"type"`
	ValueType  string     `json:"valueType"`
	Value      string     `json:"value,omitempty"`
	ValueID    *Reference `json:"valueId,omitempty"`
	SemanticID *Reference `json:"semanticId,omitempty"`
}

// Extension is a proprietary name/value annotation.
type Extension struct {
	Name       string     `json:"name"`
	ValueType  string     `json:"valueType,omitempty"`
	Value      string     `json:"value,omitempty"`
	SemanticID *Reference `json:"semanticId,omitempty"`
}

// AdministrativeInformation carries versioning metadata.
type AdministrativeInformation struct {
	Version    string     `json:"version,omitempty"`
	Revision   string     `json:"revision,omitempty"`
	Creator    *Reference `json:"creator,omitempty"`
	TemplateID string     `json:"templateId,omitempty"`
}

// EmbeddedDataSpecification pairs a data specification reference with
// its content.
type EmbeddedDataSpecification struct {
	DataSpecification        *Reference     `json:"dataSpecification,omitempty"`
	DataSpecificationContent map[string]any `json:"dataSpecificationContent,omitempty"`
}

// SpecificAssetID is a supplementary, typically proprietary, asset
// identifier.
type SpecificAssetID struct {
	Name               string     `json:"name"`
	Value              string     `json:"value"`
	SemanticID         *Reference `json:"semanticId,omitempty"`
	ExternalSubjectID  *Reference `json:"externalSubjectId,omitempty"`
}

// AssetInformation describes the asset a shell administers.
type AssetInformation struct {
	AssetKind        AssetKind         `json:"assetKind"`
	GlobalAssetID    string            `json:"globalAssetId,omitempty"`
	SpecificAssetIds []SpecificAssetID `json:"specificAssetIds,omitempty"`
	AssetType        string            `json:"assetType,omitempty"`
	DefaultThumbnail *Resource         `json:"defaultThumbnail,omitempty"`
}

// Resource is a path/content-type pair.
type Resource struct {
	Path        string `json:"path"`
	ContentType string `json:"contentType,omitempty"`
}
