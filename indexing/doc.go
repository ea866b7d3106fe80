// Copyright 2026 Veridian Systems
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


// Package indexing keeps the vector index behind the search engine up to
// date, incrementally and resiliently.
//
// Work is split across handlers, one per embedding kind:
//
//   - messages: one embedding per archived message
//   - windows: sliding-window embeddings over conversation spans, one chat
//     advanced per batch via a sweep cursor
//   - questions: question-bridge embeddings generated by an LLM
//
// The BatchProcessor drives a single handler through bounded batch runs
// with inter-batch delays and rate-limit backoff. The Orchestrator runs the
// handlers in dependency order once per tick and tells the caller whether
// to come back soon (work remains) or idle.
package indexing
