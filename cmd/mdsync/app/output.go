// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"
)

const (
	outputYAML = "yaml"
	outputJSON = "json"
)

func printObject(w io.Writer, format string, obj any) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case outputYAML:
		data, err = yaml.Marshal(obj)
	case outputJSON:
		data, err = json.MarshalIndent(obj, "", "  ")
		data = append(data, '\n')
	default:
		return fmt.Errorf("unsupported output format %q, use %s or %s", format, outputYAML, outputJSON)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// kernelName accepts an md device as kernel name (md0) or device path
// (/dev/md0, /dev/md/home) and returns its kernel name.
func kernelName(arg string) (string, error) {
	if !strings.HasPrefix(arg, "/dev/") {
		return arg, nil
	}
	resolved, err := filepath.EvalSymlinks(arg)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", arg, err)
	}
	return filepath.Base(resolved), nil
}
