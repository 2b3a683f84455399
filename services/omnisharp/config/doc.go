// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads omnihost's YAML configuration.
//
// Options are read over DefaultOptions, overridden from the environment,
// and validated with struct tags. A Watcher re-loads the file when it
// changes so callers can run a fresh host resolution with the new
// install path or policy.
package config
