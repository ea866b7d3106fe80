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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidChatMessage indicates a ChatMessage failed validation.
	ErrInvalidChatMessage = errors.New("invalid chat message")

	// ErrInvalidEmbedding indicates an Embedding failed validation.
	ErrInvalidEmbedding = errors.New("invalid embedding")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")

	// ErrZeroChatID indicates the ChatID field is zero.
	ErrZeroChatID = errors.New("chat id cannot be zero")

	// ErrZeroMessageID indicates the MessageID field is zero.
	ErrZeroMessageID = errors.New("message id cannot be zero")

	// ErrInvalidEmbeddingKind indicates an invalid EmbeddingKind value.
	ErrInvalidEmbeddingKind = errors.New("invalid embedding kind")

	// ErrEmptyVector indicates an embedding carries no vector.
	ErrEmptyVector = errors.New("embedding vector cannot be empty")
)
