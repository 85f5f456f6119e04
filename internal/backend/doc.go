// Copyright (c) 2025 Steve Taranto staranto@gmail.com.
// SPDX-License-Identifier: Apache-2.0

// Package backend selects where menu state lives: a remote REST server or a
// local snapshot (file, redis, s3 or sqlite) that is mutated in place.
package backend
