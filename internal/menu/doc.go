// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package menu defines the menu item and category types shared by every
// backend, the store and the renderer, along with name validation.
package menu
