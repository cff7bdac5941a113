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
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/titan-aas/titan-go-components/internal/common/model"
)

// Externalizer rewrites a submodel's oversized Blob values into object
// store references before the document is canonicalized.
type Externalizer struct {
	store     Store
	threshold int
}

// NewExternalizer creates an externalizer with the given inline limit.
func NewExternalizer(store Store, threshold int) *Externalizer {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Externalizer{store: store, threshold: threshold}
}

// Externalize walks the submodel and moves every Blob value whose
// decoded size reaches the threshold to the object store. The Blob's
// inline value is replaced by the storage URI, base64 encoded so the
// element stays schema-valid. Returns the asset rows to persist
// alongside the document.
func (x *Externalizer) Externalize(ctx context.Context, sm *model.Submodel) ([]Asset, error) {
	if x == nil || x.store == nil {
		return nil, nil
	}
	var assets []Asset
	var walk func(elements []model.SubmodelElement, prefix string, indexed bool) error
	walk = func(elements []model.SubmodelElement, prefix string, indexed bool) error {
		for idx, el := range elements {
			path := childPath(prefix, el, idx, indexed)
			if b, ok := el.(*model.Blob); ok && b.Value != "" {
				asset, err := x.externalizeBlob(ctx, sm.ID, path, b)
				if err != nil {
					return err
				}
				if asset != nil {
					assets = append(assets, *asset)
				}
				continue
			}
			if children, ok := model.ChildrenOf(el); ok {
				_, isList := el.(*model.SubmodelElementList)
				if err := walk(children, path, isList); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(sm.SubmodelElements, "", false); err != nil {
		return nil, err
	}
	return assets, nil
}

func (x *Externalizer) externalizeBlob(ctx context.Context, submodelID, path string, b *model.Blob) (*Asset, error) {
	data, err := base64.StdEncoding.DecodeString(b.Value)
	if err != nil {
		// Not base64; leave the value inline untouched.
		return nil, nil
	}
	if len(data) < x.threshold {
		return nil, nil
	}
	uri, err := x.store.Put(ctx, KeyFor(data), data, b.ContentType)
	if err != nil {
		return nil, fmt.Errorf("externalize %s: %w", path, err)
	}
	b.Value = base64.StdEncoding.EncodeToString([]byte(uri))
	return &Asset{
		SubmodelID:  submodelID,
		IDShortPath: path,
		StorageURI:  uri,
		ContentType: b.ContentType,
		Size:        int64(len(data)),
		SHA256:      HashOf(data),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// childPath extends an idShort path by one element. Children of a list
// are addressed by index on the list path, everything else by idShort.
func childPath(prefix string, el model.SubmodelElement, idx int, indexed bool) string {
	if indexed {
		return fmt.Sprintf("%s[%d]", prefix, idx)
	}
	if prefix == "" {
		return el.GetIdShort()
	}
	return prefix + "." + el.GetIdShort()
}
