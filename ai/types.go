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

package ai

// Entity labels. The names follow the common OntoNotes tag set.
const (
	LabelOrganization = "ORG"
	LabelProduct      = "PRODUCT"
	LabelPerson       = "PERSON"
	LabelPlace        = "GPE"
	LabelMoney        = "MONEY"
	LabelDate         = "DATE"
)

// EntityLabels lists the labels extractors may assign.
var EntityLabels = []string{
	LabelOrganization,
	LabelProduct,
	LabelPerson,
	LabelPlace,
	LabelMoney,
	LabelDate,
}

// IsCompanyLabel reports whether label names something that can be a listed
// company: an organization or a product.
func IsCompanyLabel(label string) bool {
	return label == LabelOrganization || label == LabelProduct
}
