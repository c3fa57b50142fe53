// Copyright (c) marcelfarres 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package manifest reads the deployment manifests emitted by
// `pachctl deploy --dry-run`: a stream of concatenated JSON documents. The
// stream is joined into one JSON array, which can be scraped for container
// images and fed to kubectl.
package manifest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrMalformed is returned when the dry-run output is not valid JSON.
var ErrMalformed = errors.New("malformed deployment manifest")

// ErrImageNotFound is returned when no container with the requested name and
// an image reference exists in the manifests.
var ErrImageNotFound = errors.New("image not found in deployment manifests")

// Set is the manifests of one dry-run deployment, held as a single JSON
// array document.
type Set struct {
	raw string
}

// Parse joins the concatenated JSON documents of a dry-run deployment into a
// Set. The documents arrive back to back, separated only by the closing and
// opening braces of adjacent objects.
func Parse(out string) (*Set, error) {
	raw := fmt.Sprintf("[%s]", strings.ReplaceAll(out, "}\n{", "},{"))

	if !gjson.Valid(raw) {
		return nil, ErrMalformed
	}

	return &Set{raw: raw}, nil
}

// JSON returns the manifests as one JSON array document, suitable for
// feeding to `kubectl create -f -`.
func (s *Set) JSON() []byte {
	return []byte(s.raw)
}

// Retarget returns a Set with every occurrence of the "local" deploy target
// rewritten to the given target.
func (s *Set) Retarget(target string) *Set {
	return &Set{raw: strings.ReplaceAll(s.raw, "local", target)}
}

// Image finds the image reference of the named container anywhere in the
// manifests.
func (s *Set) Image(name string) (string, error) {
	image, ok := findImage(gjson.Parse(s.raw), name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrImageNotFound, name)
	}

	return image, nil
}

// findImage walks the document depth-first looking for an object whose
// "name" matches and that carries an "image" reference. Container specs are
// nested at varying depths depending on the object kind, hence the walk.
func findImage(v gjson.Result, name string) (string, bool) {
	if v.IsObject() && v.Get("name").String() == name {
		if image := v.Get("image"); image.Exists() {
			return image.String(), true
		}
	}

	if !v.IsObject() && !v.IsArray() {
		return "", false
	}

	var (
		found string
		ok    bool
	)

	v.ForEach(func(_, child gjson.Result) bool {
		found, ok = findImage(child, name)

		return !ok
	})

	return found, ok
}
