// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tailfile extracts the most recent line fragment from a file that
// another process is appending to. Each poll re-reads at most a fixed-size
// window of bytes at the end of the file, so the cost of a poll stays
// bounded no matter how large the file grows.
package tailfile
