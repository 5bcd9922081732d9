// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package gen holds the event ABI of built-in contracts.
package gen

import (
	"embed"
	"path"
)

//go:embed compiled/*.abi
var compiled embed.FS

// MustAsset loads the named ABI asset, e.g. "compiled/Token.abi".
// It panics if the asset is missing.
func MustAsset(name string) []byte {
	data, err := compiled.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return data
}

// AssetNames returns names of all embedded assets.
func AssetNames() []string {
	entries, _ := compiled.ReadDir("compiled")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, path.Join("compiled", e.Name()))
	}
	return names
}
