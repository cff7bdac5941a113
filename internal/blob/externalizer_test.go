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

package blob

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/titan-aas/titan-go-components/internal/common/model"
)

type memStore struct {
	objects map[string][]byte
	puts    []string
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (s *memStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.objects[key] = data
	s.puts = append(s.puts, key)
	return "mem://bucket/" + key, nil
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	return s.objects[key], nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func blobElement(idShort string, payload []byte) *model.Blob {
	return &model.Blob{
		IdShort:     idShort,
		ModelType:   "Blob",
		Value:       base64.StdEncoding.EncodeToString(payload),
		ContentType: "application/pdf",
	}
}

func TestExternalizeMovesOversizedBlob(t *testing.T) {
	store := newMemStore()
	x := NewExternalizer(store, 16)
	payload := bytes.Repeat([]byte{0xAB}, 64)

	b := blobElement("Manual", payload)
	sm := &model.Submodel{ID: "urn:sm:1", ModelType: "Submodel", SubmodelElements: []model.SubmodelElement{b}}

	assets, err := x.Externalize(context.Background(), sm)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	require.Len(t, store.puts, 1)

	asset := assets[0]
	assert.Equal(t, "urn:sm:1", asset.SubmodelID)
	assert.Equal(t, "Manual", asset.IDShortPath)
	assert.Equal(t, "mem://bucket/"+KeyFor(payload), asset.StorageURI)
	assert.Equal(t, "application/pdf", asset.ContentType)
	assert.Equal(t, int64(64), asset.Size)
	assert.Equal(t, HashOf(payload), asset.SHA256)

	// The inline value now carries the storage URI, base64 encoded.
	decoded, err := base64.StdEncoding.DecodeString(b.Value)
	require.NoError(t, err)
	assert.Equal(t, asset.StorageURI, string(decoded))

	stored, err := store.Get(context.Background(), KeyFor(payload))
	require.NoError(t, err)
	assert.Equal(t, payload, stored)
}

func TestExternalizeSkipsSmallBlob(t *testing.T) {
	store := newMemStore()
	x := NewExternalizer(store, 16)

	b := blobElement("Thumb", []byte("tiny"))
	before := b.Value
	sm := &model.Submodel{ID: "urn:sm:1", SubmodelElements: []model.SubmodelElement{b}}

	assets, err := x.Externalize(context.Background(), sm)
	require.NoError(t, err)
	assert.Empty(t, assets)
	assert.Empty(t, store.puts)
	assert.Equal(t, before, b.Value)
}

func TestExternalizeLeavesNonBase64Inline(t *testing.T) {
	store := newMemStore()
	x := NewExternalizer(store, 1)

	b := &model.Blob{IdShort: "Raw", ModelType: "Blob", Value: "not base64 !!!", ContentType: "text/plain"}
	sm := &model.Submodel{ID: "urn:sm:1", SubmodelElements: []model.SubmodelElement{b}}

	assets, err := x.Externalize(context.Background(), sm)
	require.NoError(t, err)
	assert.Empty(t, assets)
	assert.Equal(t, "not base64 !!!", b.Value)
}

func TestExternalizeAddressesNestedElements(t *testing.T) {
	store := newMemStore()
	x := NewExternalizer(store, 16)
	payload := bytes.Repeat([]byte{0x01}, 32)

	nested := blobElement("Scan", payload)
	listed := blobElement("ignored", payload)
	sm := &model.Submodel{
		ID: "urn:sm:1",
		SubmodelElements: []model.SubmodelElement{
			&model.SubmodelElementCollection{
				IdShort:   "Docs",
				ModelType: "SubmodelElementCollection",
				Value:     []model.SubmodelElement{nested},
			},
			&model.SubmodelElementList{
				IdShort:   "Attachments",
				ModelType: "SubmodelElementList",
				Value:     []model.SubmodelElement{listed},
			},
		},
	}

	assets, err := x.Externalize(context.Background(), sm)
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "Docs.Scan", assets[0].IDShortPath)
	assert.Equal(t, "Attachments[0]", assets[1].IDShortPath)

	// Identical payloads dedupe onto one object key.
	assert.Equal(t, assets[0].StorageURI, assets[1].StorageURI)
}

func TestNilExternalizerIsNoOp(t *testing.T) {
	var x *Externalizer
	b := blobElement("Manual", bytes.Repeat([]byte{0xFF}, 1024))
	before := b.Value
	sm := &model.Submodel{ID: "urn:sm:1", SubmodelElements: []model.SubmodelElement{b}}

	assets, err := x.Externalize(context.Background(), sm)
	require.NoError(t, err)
	assert.Nil(t, assets)
	assert.Equal(t, before, b.Value)
}
