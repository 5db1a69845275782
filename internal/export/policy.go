/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxSide caps either dimension of an exported image.
const MaxSide = 16384

var (
	ErrInvalidSizePolicy = errors.New("invalid export size")
	ErrExportTooLarge    = errors.New("export too large")
)

// SizePolicy is either Auto (fit the content plus padding) or an explicit
// Width x Height target into which the content is scaled uniformly.
type SizePolicy struct {
	Auto   bool
	Width  int
	Height int
}

var Auto = SizePolicy{Auto: true}

// ParseSizePolicy accepts "auto" or "WxH" (case-insensitive, surrounding
// whitespace allowed). An empty string means auto.
func ParseSizePolicy(s string) (SizePolicy, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" || v == "auto" {
		return Auto, nil
	}
	parts := strings.Split(v, "x")
	if len(parts) != 2 {
		return SizePolicy{}, fmt.Errorf("%w: %q", ErrInvalidSizePolicy, s)
	}
	w, errW := strconv.Atoi(strings.TrimSpace(parts[0]))
	h, errH := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errW != nil || errH != nil {
		return SizePolicy{}, fmt.Errorf("%w: %q", ErrInvalidSizePolicy, s)
	}
	if w < 1 || h < 1 || w > MaxSide || h > MaxSide {
		return SizePolicy{}, fmt.Errorf("%w: %q must be between 1 and %d per side", ErrInvalidSizePolicy, s, MaxSide)
	}
	return SizePolicy{Width: w, Height: h}, nil
}

func (p SizePolicy) String() string {
	if p.Auto {
		return "auto"
	}
	return fmt.Sprintf("%dx%d", p.Width, p.Height)
}
