package build

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// inputSignature is the normalized representation hashed into a build
// signature. Two builds with identical signatures consume identical inputs
// and — given unchanged collaborators — produce byte-identical artifacts.
type inputSignature struct {
	ScriptEntry string            `json:"script_entry"`
	StyleEntry  string            `json:"style_entry"`
	MarkupEntry string            `json:"markup_entry"`
	AssetPaths  []string          `json:"asset_paths"`
	RootPath    string            `json:"root_path"`
	FileHashes  map[string]string `json:"file_hashes"`
}

// Signature computes a deterministic sha256 over the spec and the content
// of every regular file under the root path. The watch daemon uses it to
// skip rebuilds whose inputs are unchanged.
func Signature(spec Spec) (string, error) {
	hashes, err := hashTree(spec.RootPath, spec.Output())
	if err != nil {
		return "", err
	}

	assets := append([]string(nil), spec.AssetPaths...)
	sort.Strings(assets)

	sig := inputSignature{
		ScriptEntry: spec.ScriptEntry,
		StyleEntry:  spec.StyleEntry,
		MarkupEntry: spec.MarkupEntry,
		AssetPaths:  assets,
		RootPath:    spec.RootPath,
		FileHashes:  hashes,
	}

	data, err := json.Marshal(sig)
	if err != nil {
		return "", fmt.Errorf("marshal signature: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// hashTree hashes every regular file under root, keyed by slash-separated
// relative path. The output directory is excluded so a build does not
// invalidate its own signature.
func hashTree(root, outputDir string) (map[string]string, error) {
	hashes := make(map[string]string)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == outputDir || d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		sum := sha256.Sum256(data)
		hashes[filepath.ToSlash(rel)] = hex.EncodeToString(sum[:])
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("hash input tree: %w", err)
	}
	return hashes, nil
}
