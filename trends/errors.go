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

package trends

import (
	"errors"

	"github.com/poiesic/marketscout/core"
)

var (
	// ErrRateLimited is returned by providers when they refuse a request
	// because of rate limiting. Cache retries only on this error.
	ErrRateLimited = errors.New("trend provider rate limited")

	// ErrRepositoryRequired is returned when a cache has no repository.
	ErrRepositoryRequired = errors.New("trend repository required")

	// ErrProviderRequired is returned when a cache has no provider.
	ErrProviderRequired = errors.New("trend provider required")
)

// SentinelRateLimited is the single entry returned when every attempt was
// rate limited.
const SentinelRateLimited = core.WarningMarker + " Search-trend rate limit exceeded. Please try again later."
