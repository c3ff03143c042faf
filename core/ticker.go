// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"regexp"
	"strings"
)

var tickerPattern = regexp.MustCompile(`^[A-Z]{1,5}(\.[A-Z]{1,2})?$`)

// IsTickerSymbol reports whether s has ticker syntax: one to five uppercase
// letters with an optional one or two letter exchange suffix.
func IsTickerSymbol(s string) bool {
	return tickerPattern.MatchString(s)
}

// exchange suffix -> country code
var suffixCountries = map[string]string{
	"NS": "IN",
	"BO": "IN",
	"L":  "UK",
	"T":  "JP",
	"KS": "KR",
	"KQ": "KR",
	"HK": "HK",
	"TO": "CA",
	"AX": "AU",
	"DE": "DE",
	"PA": "FR",
}

// CountryForSymbol infers a market country from a symbol's exchange suffix.
// Symbols without a known suffix are assumed to be US listings.
func CountryForSymbol(symbol string) string {
	i := strings.LastIndexByte(symbol, '.')
	if i < 0 || i == len(symbol)-1 {
		return "US"
	}
	if c, ok := suffixCountries[strings.ToUpper(symbol[i+1:])]; ok {
		return c
	}
	return "US"
}
