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

// Package projection implements the query-time read transformations of
// the AAS API: the $value, $metadata, $reference and $path modifiers and
// the level/extent parameters.
package projection

import (
	"fmt"

	gen "github.com/titan-aas/titan-go-components/internal/common/model"
)

// SubmodelElementToValueOnly converts a SubmodelElement to its
// value-only representation according to IDTA-01001.
func SubmodelElementToValueOnly(element gen.SubmodelElement) interface{} {
	switch e := element.(type) {
	case *gen.Property:
		if e.Value != "" {
			return e.Value
		}
		return nil
	case *gen.MultiLanguageProperty:
		if e.Value != nil {
			return e.Value
		}
		return nil
	case *gen.Range:
		return map[string]interface{}{
			"min": e.Min,
			"max": e.Max,
		}
	case *gen.File:
		return e.Value
	case *gen.Blob:
		return e.Value
	case *gen.ReferenceElement:
		if e.Value != nil {
			return ReferenceToValueOnly(*e.Value)
		}
		return nil
	case *gen.RelationshipElement:
		return map[string]interface{}{
			"first":  relationshipEnd(e.First),
			"second": relationshipEnd(e.Second),
		}
	case *gen.AnnotatedRelationshipElement:
		result := map[string]interface{}{
			"first":  relationshipEnd(e.First),
			"second": relationshipEnd(e.Second),
		}
		if len(e.Annotations) > 0 {
			annotations := make(map[string]interface{})
			for _, annotation := range e.Annotations {
				annotations[annotation.GetIdShort()] = SubmodelElementToValueOnly(annotation)
			}
			result["annotations"] = annotations
		}
		return result
	case *gen.Capability:
		return map[string]interface{}{}
	case *gen.SubmodelElementCollection:
		result := make(map[string]interface{})
		for _, elem := range e.Value {
			result[elem.GetIdShort()] = SubmodelElementToValueOnly(elem)
		}
		return result
	case *gen.SubmodelElementList:
		result := make([]interface{}, len(e.Value))
		for i, elem := range e.Value {
			result[i] = SubmodelElementToValueOnly(elem)
		}
		return result
	case *gen.Entity:
		result := map[string]interface{}{
			"entityType": e.EntityType,
		}
		if e.GlobalAssetID != "" {
			result["globalAssetId"] = e.GlobalAssetID
		}
		if len(e.SpecificAssetIds) > 0 {
			result["specificAssetIds"] = e.SpecificAssetIds
		}
		if len(e.Statements) > 0 {
			statements := make(map[string]interface{})
			for _, stmt := range e.Statements {
				statements[stmt.GetIdShort()] = SubmodelElementToValueOnly(stmt)
			}
			result["statements"] = statements
		}
		return result
	case *gen.Operation:
		// Operations have no value-only representation.
		return nil
	default:
		return nil
	}
}

// relationshipEnd tolerates a relationship stored without one of its
// ends; the value-only form then carries null for that end.
func relationshipEnd(ref *gen.Reference) interface{} {
	if ref == nil {
		return nil
	}
	return ReferenceToValueOnly(*ref)
}

// ReferenceToValueOnly converts a Reference to its value-only form.
func ReferenceToValueOnly(ref gen.Reference) map[string]interface{} {
	result := make(map[string]interface{})
	result["type"] = ref.Type

	if len(ref.Keys) > 0 {
		keys := make([]map[string]interface{}, len(ref.Keys))
		for i, key := range ref.Keys {
			keys[i] = map[string]interface{}{
				"type":  key.Type,
				"value": key.Value,
			}
		}
		result["keys"] = keys
	}
	if ref.ReferredSemanticID != nil {
		result["referredSemanticId"] = ReferenceToValueOnly(*ref.ReferredSemanticID)
	}
	return result
}

// SubmodelToValueOnly converts a Submodel to its value-only
// representation.
func SubmodelToValueOnly(submodel *gen.Submodel) map[string]interface{} {
	result := make(map[string]interface{})
	for _, element := range submodel.SubmodelElements {
		value := SubmodelElementToValueOnly(element)
		if value != nil {
			result[element.GetIdShort()] = value
		}
	}
	return result
}

// UpdateSubmodelFromValueOnly re-inserts values from a value-only
// representation into the submodel's elements. Together with
// SubmodelToValueOnly it is value-neutral: applying $value and feeding
// the result back reproduces the original document after
// re-canonicalization.
func UpdateSubmodelFromValueOnly(submodel *gen.Submodel, valueOnly map[string]interface{}) error {
	for _, element := range submodel.SubmodelElements {
		idShort := element.GetIdShort()
		if value, exists := valueOnly[idShort]; exists {
			if err := UpdateSubmodelElementFromValueOnly(element, value); err != nil {
				return fmt.Errorf("failed to update element %s: %w", idShort, err)
			}
		}
	}
	return nil
}

// UpdateSubmodelElementFromValueOnly updates one element with a value
// from its value-only representation.
func UpdateSubmodelElementFromValueOnly(element gen.SubmodelElement, value interface{}) error {
	switch e := element.(type) {
	case *gen.Property:
		strValue, ok := value.(string)
		if !ok {
			return fmt.Errorf("invalid value type for Property: expected string, got %T", value)
		}
		e.Value = strValue
	case *gen.MultiLanguageProperty:
		langStrings, err := toLangStrings(value)
		if err != nil {
			return err
		}
		e.Value = langStrings
	case *gen.Range:
		rangeMap, ok := value.(map[string]interface{})
		if !ok {
			return fmt.Errorf("invalid value type for Range: expected map, got %T", value)
		}
		if minVal, exists := rangeMap["min"]; exists {
			if minStr, ok := minVal.(string); ok {
				e.Min = minStr
			}
		}
		if maxVal, exists := rangeMap["max"]; exists {
			if maxStr, ok := maxVal.(string); ok {
				e.Max = maxStr
			}
		}
	case *gen.File:
		strValue, ok := value.(string)
		if !ok {
			return fmt.Errorf("invalid value type for File: expected string, got %T", value)
		}
		e.Value = strValue
	case *gen.Blob:
		strValue, ok := value.(string)
		if !ok {
			return fmt.Errorf("invalid value type for Blob: expected string, got %T", value)
		}
		e.Value = strValue
	case *gen.ReferenceElement:
		refMap, ok := value.(map[string]interface{})
		if !ok {
			return fmt.Errorf("invalid value type for ReferenceElement: expected map, got %T", value)
		}
		ref, err := ValueOnlyToReference(refMap)
		if err != nil {
			return fmt.Errorf("failed to convert value-only to Reference: %w", err)
		}
		e.Value = &ref
	case *gen.RelationshipElement:
		relMap, ok := value.(map[string]interface{})
		if !ok {
			return fmt.Errorf("invalid value type for RelationshipElement: expected map, got %T", value)
		}
		if firstMap, ok := relMap["first"].(map[string]interface{}); ok {
			firstRef, err := ValueOnlyToReference(firstMap)
			if err != nil {
				return fmt.Errorf("failed to convert first reference: %w", err)
			}
			e.First = &firstRef
		}
		if secondMap, ok := relMap["second"].(map[string]interface{}); ok {
			secondRef, err := ValueOnlyToReference(secondMap)
			if err != nil {
				return fmt.Errorf("failed to convert second reference: %w", err)
			}
			e.Second = &secondRef
		}
	case *gen.SubmodelElementCollection:
		collectionMap, ok := value.(map[string]interface{})
		if !ok {
			return fmt.Errorf("invalid value type for SubmodelElementCollection: expected map, got %T", value)
		}
		for _, elem := range e.Value {
			if elemValue, exists := collectionMap[elem.GetIdShort()]; exists {
				if err := UpdateSubmodelElementFromValueOnly(elem, elemValue); err != nil {
					return fmt.Errorf("failed to update collection element %s: %w", elem.GetIdShort(), err)
				}
			}
		}
	case *gen.SubmodelElementList:
		listSlice, ok := value.([]interface{})
		if !ok {
			return fmt.Errorf("invalid value type for SubmodelElementList: expected slice, got %T", value)
		}
		if len(listSlice) != len(e.Value) {
			return fmt.Errorf("list length mismatch: expected %d elements, got %d", len(e.Value), len(listSlice))
		}
		for i, elemValue := range listSlice {
			if err := UpdateSubmodelElementFromValueOnly(e.Value[i], elemValue); err != nil {
				return fmt.Errorf("failed to update list element %d: %w", i, err)
			}
		}
	case *gen.Entity:
		entityMap, ok := value.(map[string]interface{})
		if !ok {
			return fmt.Errorf("invalid value type for Entity: expected map, got %T", value)
		}
		if entityType, ok := entityMap["entityType"].(string); ok {
			e.EntityType = entityType
		}
		if globalAssetID, ok := entityMap["globalAssetId"].(string); ok {
			e.GlobalAssetID = globalAssetID
		}
		if stmtMap, ok := entityMap["statements"].(map[string]interface{}); ok {
			for _, stmt := range e.Statements {
				if stmtValue, exists := stmtMap[stmt.GetIdShort()]; exists {
					if err := UpdateSubmodelElementFromValueOnly(stmt, stmtValue); err != nil {
						return fmt.Errorf("failed to update entity statement %s: %w", stmt.GetIdShort(), err)
					}
				}
			}
		}
	default:
		return fmt.Errorf("unsupported element type: %T", element)
	}
	return nil
}

func toLangStrings(value interface{}) ([]gen.LangStringTextType, error) {
	switch v := value.(type) {
	case []gen.LangStringTextType:
		return v, nil
	case []interface{}:
		out := make([]gen.LangStringTextType, 0, len(v))
		for _, item := range v {
			m, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("invalid MultiLanguageProperty value item: %T", item)
			}
			ls := gen.LangStringTextType{}
			if lang, ok := m["language"].(string); ok {
				ls.Language = lang
			}
			if text, ok := m["text"].(string); ok {
				ls.Text = text
			}
			out = append(out, ls)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("invalid value type for MultiLanguageProperty: %T", value)
	}
}

// ValueOnlyToReference converts a value-only reference representation
// back to a Reference.
func ValueOnlyToReference(refMap map[string]interface{}) (gen.Reference, error) {
	ref := gen.Reference{}

	if refType, exists := refMap["type"]; exists {
		switch rt := refType.(type) {
		case gen.ReferenceTypes:
			ref.Type = rt
		case string:
			ref.Type = gen.ReferenceTypes(rt)
		}
	}
	if keys, ok := refMap["keys"].([]interface{}); ok {
		ref.Keys = make([]gen.Key, len(keys))
		for i, keyMap := range keys {
			km, ok := keyMap.(map[string]interface{})
			if !ok {
				continue
			}
			key := gen.Key{}
			switch kt := km["type"].(type) {
			case gen.KeyTypes:
				key.Type = kt
			case string:
				key.Type = gen.KeyTypes(kt)
			}
			if kv, ok := km["value"].(string); ok {
				key.Value = kv
			}
			ref.Keys[i] = key
		}
	}
	if rsidMap, ok := refMap["referredSemanticId"].(map[string]interface{}); ok {
		rsid, err := ValueOnlyToReference(rsidMap)
		if err != nil {
			return ref, err
		}
		ref.ReferredSemanticID = &rsid
	}
	return ref, nil
}
