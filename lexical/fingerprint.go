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

package lexical

import (
	"crypto/sha256"
	"encoding/hex"
)

// computeFingerprint generates a stable hash of the ordered document list.
// Reordering documents changes the fingerprint because positions break ties.
func computeFingerprint(docs []string) string {
	h := sha256.New()
	for _, doc := range docs {
		h.Write([]byte(doc))
		h.Write([]byte{0}) // separator
	}
	return hex.EncodeToString(h.Sum(nil))
}
