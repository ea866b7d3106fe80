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


package badger

import "github.com/veridian-systems/recollect/storage"

// NewMemoryRepositories creates in-memory message, embedding, and checkpoint
// repositories for testing. Caller must close the repos and the backend when done.
func NewMemoryRepositories() (storage.MessageRepository, storage.EmbeddingRepository, storage.CheckpointRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	msgRepo, err := NewMessageRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, nil, err
	}

	embRepo, err := NewEmbeddingRepository(backend)
	if err != nil {
		msgRepo.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	ckptRepo := NewCheckpointRepository(backend)

	return msgRepo, embRepo, ckptRepo, backend, nil
}
