package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/wordstream/pkg/errors"
	"github.com/matzehuels/wordstream/pkg/pipeline"
)

// stdoutPath selects standard output for single-format runs.
const stdoutPath = "-"

// basePath derives the base output path. An empty output falls back to the
// input file name without its extension, or to fallback when there is no
// input file. A known format extension on output is stripped.
func basePath(output, input, fallback string) string {
	if output == "" {
		if input == "" || input == stdoutPath {
			return fallback
		}
		return strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidFormats[strings.ToLower(ext)] {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

// outputPaths maps each format to the file it is written to. A single
// format with an explicit output is written exactly there.
func outputPaths(output, input, fallback string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input, fallback)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// writeArtifacts writes every requested artifact and returns the written
// paths in format order. stdout receives the artifact when its path is "-".
func writeArtifacts(stdout io.Writer, artifacts map[string][]byte, formats []string, paths map[string]string) ([]string, error) {
	if len(formats) > 1 {
		for _, f := range formats {
			if paths[f] == stdoutPath+"."+f {
				return nil, errors.New(errors.ErrCodeInvalidInput, "cannot write %d formats to stdout", len(formats))
			}
		}
	}
	var written []string
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			return written, errors.New(errors.ErrCodeInternal, "no %s artifact produced", f)
		}
		path := paths[f]
		if path == stdoutPath {
			if _, err := stdout.Write(data); err != nil {
				return written, errors.Wrap(errors.ErrCodeInternal, err, "write stdout")
			}
			continue
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return written, errors.Wrap(errors.ErrCodeInternal, err, "create %s", dir)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
		}
		written = append(written, path)
	}
	return written, nil
}
