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


// Package storage provides the storage abstraction layer for recollect.
//
// This package defines repository interfaces that decouple the search and
// indexing logic from a concrete vector/text store. The badger subpackage
// provides the default BadgerDB-backed implementation.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return these interfaces, not
// concrete types:
//
//	msgs, err := badger.NewMessageRepository(backend)  // storage.MessageRepository
//
// This keeps consumers swappable across backends and mockable in tests.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and timeout
// support.
package storage
