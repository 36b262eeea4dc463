package plantuml

import (
	"fmt"
	"path/filepath"
	"strings"
)

// JarEnvVar names plantuml.jar directly. It is honored only when it points
// at an existing file.
const JarEnvVar = "PLANTUML_JAR_PATH"

const jarDownloadURL = "https://github.com/plantuml/plantuml/releases/latest"

// jarCandidates lists the fixed locations searched for plantuml.jar, in order.
// Entries that cannot be computed (no home directory, no executable path)
// are skipped.
func jarCandidates(h host) []string {
	var paths []string
	if dir, err := h.exeDir(); err == nil && dir != "" {
		paths = append(paths,
			filepath.Join(dir, "extension", "bin", "plantuml.jar"),
			filepath.Join(dir, "bin", "plantuml.jar"),
			filepath.Join(dir, "plantuml.jar"),
		)
	}
	if home, err := h.homeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".plantuml", "plantuml.jar"))
	}
	paths = append(paths,
		"/usr/local/bin/plantuml.jar",
		"/opt/plantuml/plantuml.jar",
	)
	return paths
}

// resolveJar returns explicit verbatim when set. Otherwise it tries the
// environment override and then every candidate. The error lists every
// location that was checked.
func resolveJar(h host, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	var checked []string
	if env := h.getenv(JarEnvVar); env != "" {
		if h.isFile(env) {
			return env, nil
		}
		checked = append(checked, fmt.Sprintf("%s (from %s)", env, JarEnvVar))
	}

	for _, p := range jarCandidates(h) {
		if h.isFile(p) {
			return p, nil
		}
		checked = append(checked, p)
	}

	var b strings.Builder
	b.WriteString("plantuml.jar not found. Checked locations:\n")
	for _, p := range checked {
		fmt.Fprintf(&b, "  - %s\n", p)
	}
	fmt.Fprintf(&b, "\nDownload from: %s", jarDownloadURL)
	return "", &Error{Kind: JarNotFound, Msg: b.String()}
}
