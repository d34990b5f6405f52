package cmake

import (
	"slices"
	"strings"

	"github.com/kballard/go-shellquote"
)

const (
	sourceDirPrefix = "${PROJECT_SOURCE_DIR}/"

	// CDT quotes workspace-relative paths: "${workspace_loc:/MyProj/include}"
	workspacePrefix = `"${workspace_loc:/`
	workspaceSuffix = `}"`
	parentPrefix    = "../../"
)

type pathOrigin int

const (
	originPlain pathOrigin = iota
	originWorkspace
	originParent
)

// rewritePath turns CDT workspace and parent-relative paths into paths under the CMake source dir
func rewritePath(p string) (string, pathOrigin) {
	switch {
	case strings.HasPrefix(p, workspacePrefix):
		rest := strings.TrimPrefix(p, workspacePrefix)
		if len(rest) >= len(workspaceSuffix) {
			rest = rest[:len(rest)-len(workspaceSuffix)]
		}
		return sourceDirPrefix + rest, originWorkspace
	case strings.HasPrefix(p, parentPrefix):
		return sourceDirPrefix + strings.TrimPrefix(p, parentPrefix), originParent
	}
	return p, originPlain
}

func withSlash(p string) string {
	if strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}

// NormalizeInclude rewrites an include path. ok is false when the path is dropped.
func NormalizeInclude(p string) (string, bool) {
	if p == "" {
		return "", false
	}
	p, _ = rewritePath(p)
	return withSlash(p), true
}

// NormalizeLibPath rewrites a library search path. Workspace and parent-relative
// paths are dropped since CMake resolves them on its own.
func NormalizeLibPath(p string) (string, bool) {
	if p == "" {
		return "", false
	}
	if _, origin := rewritePath(p); origin != originPlain {
		return "", false
	}
	return withSlash(p), true
}

// NormalizeIncludes normalizes paths and removes duplicates, keeping first-seen order
func NormalizeIncludes(paths []string) []string {
	return normalizeAll(paths, NormalizeInclude)
}

func NormalizeLibPaths(paths []string) []string {
	return normalizeAll(paths, NormalizeLibPath)
}

func normalizeAll(paths []string, fn func(string) (string, bool)) []string {
	var out []string
	for _, p := range paths {
		if n, ok := fn(p); ok && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

// DedupLibs drops repeated library names. Names are never rewritten.
func DedupLibs(libs []string) []string {
	var out []string
	for _, lib := range libs {
		if lib != "" && !slices.Contains(out, lib) {
			out = append(out, lib)
		}
	}
	return out
}

// SplitFlags tokenizes flag blobs with shell rules and drops repeated tokens.
// A blob with unbalanced quotes is split on whitespace instead.
func SplitFlags(blobs ...string) []string {
	var tokens []string
	for _, blob := range blobs {
		words, err := shellquote.Split(blob)
		if err != nil {
			words = strings.Fields(blob)
		}
		for _, w := range words {
			if w != "" && !slices.Contains(tokens, w) {
				tokens = append(tokens, w)
			}
		}
	}
	return tokens
}

// joinFlags renders tokens as the content of one quoted property value
func joinFlags(tokens []string) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		if strings.ContainsAny(tok, " \t") {
			tok = `"` + tok + `"`
		}
		parts[i] = tok
	}
	return strings.Join(parts, " ")
}
