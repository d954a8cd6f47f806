// Copyright (c) 2026 Keymaster Team
// Keykapp - append-only message logger
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the keykapp command line using Cobra. It resolves
// configuration, sets up logging and localisation, and hands the resolved
// path and message to the appender.
package cli
