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


// Package search implements fusion search over a chat-message archive.
//
// The Engine type runs a multi-stage pipeline for each question:
//   - Structural query expansion into word-order variants plus a keyword set
//   - Parallel similarity and full-text retrieval for every variant
//   - Reciprocal rank fusion with embedding-type-aware deduplication
//   - A confidence verdict that gates whether results may feed answer generation
//
// The package also assembles merged context windows around matched messages
// so the answer generator sees the surrounding conversation, not isolated
// lines.
package search
