// Package plantuml renders PlantUML markup locally by running plantuml.jar
// under a Java runtime found on the host.
//
// # Prerequisites
//
// A Java runtime (11 or newer) and a copy of plantuml.jar are required:
//   - Java: https://adoptium.net/ or the platform package manager
//   - plantuml.jar: https://github.com/plantuml/plantuml/releases/latest
//
// # Resolution
//
// New resolves its two dependencies before returning a client:
//
//  1. Java: explicit path, then $JAVA_HOME/bin/java, then $PATH, then (on
//     Windows only) the vendor install roots under Program Files.
//  2. plantuml.jar: explicit path, then $PLANTUML_JAR_PATH if it names a file,
//     then a fixed list of candidate locations.
//  3. The Java binary is run with -version to prove it can execute.
//
// Any failure aborts construction with an *Error whose Kind is JavaNotFound
// or JarNotFound. There is no partially initialized client.
//
// # Rendering
//
// Render writes the markup to a uniquely named temporary .puml file, runs
//
//	<java> -jar <plantuml.jar> -t<format> -charset UTF-8 -o <dir> <input>
//
// and confirms the output file exists. Failures are reported through the
// returned Result rather than as a Go error, so callers always inspect one
// shape. The temporary input file is removed on every path.
//
// Subprocess output is captured in memory and never reaches this process's
// stdout, which the MCP stdio transport owns.
//
// # Timeouts
//
// The version check is bounded by VersionTimeout (10s) and each render by
// DefaultRenderTimeout (60s). On expiry the renderer's whole process group
// is killed so no Java process outlives the call.
package plantuml
