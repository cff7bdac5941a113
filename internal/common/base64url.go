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

package common

import (
	"encoding/base64"
)

// Encode takes a byte slice and returns an unpadded base64 URL-encoded
// string as specified in RFC 4648 section 5. Identifiers carried in URL
// path segments always travel in this form.
func Encode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// Decode takes an unpadded base64 URL-encoded string and returns the
// decoded bytes. Inputs containing characters outside the base64url
// alphabet, padding characters, or an invalid length (len mod 4 == 1)
// are rejected with InvalidIdentifierEncoding before any store is
// touched.
func Decode(encoded string) ([]byte, error) {
	if len(encoded)%4 == 1 {
		return nil, NewErrInvalidIdentifierEncoding(encoded)
	}
	for i := 0; i < len(encoded); i++ {
		if !isBase64URLChar(encoded[i]) {
			return nil, NewErrInvalidIdentifierEncoding(encoded)
		}
	}
	decoded, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, NewErrInvalidIdentifierEncoding(encoded)
	}
	return decoded, nil
}

func isBase64URLChar(c byte) bool {
	return c >= 'A' && c <= 'Z' ||
		c >= 'a' && c <= 'z' ||
		c >= '0' && c <= '9' ||
		c == '-' || c == '_'
}

// EncodeString is a convenience function that takes a string,
// converts it to bytes, and returns the unpadded base64 URL encoding.
func EncodeString(data string) string {
	return Encode([]byte(data))
}

// DecodeString decodes an unpadded base64 URL-encoded string and returns
// the decoded string. Decode(Encode(x)) == x holds for every UTF-8 input.
func DecodeString(encoded string) (string, error) {
	bytes, err := Decode(encoded)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
