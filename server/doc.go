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

// Package server exposes the research pipeline over HTTP and MCP.
//
// The HTTP surface is a chi router:
//
//	GET /                 liveness message
//	GET /bm25_search      lexical ranking (query, top_k)
//	GET /vector_search    semantic ranking (query, top_k)
//	GET /hybrid_search    fused ranking (query, top_k)
//	GET /analyze          entity extraction and ticker resolution (text)
//	GET /rag_generate     full pipeline plus generated answer (query, ticker, country, top_k)
//	GET /trends           cached search-trend observations (term)
//	PUT /corpus           replace the lexical corpus
//	/mcp                  MCP over streamable HTTP, when enabled
//
// Every response carries an X-Request-ID header. The MCP server offers one
// tool, market_research, backed by the same pipeline.
package server
