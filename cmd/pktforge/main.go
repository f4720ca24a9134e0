// Command pktforge converts topology documents to .pkt containers and back.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"ptforge.dev/pktfile/cidutil"
	"ptforge.dev/pktfile/pktfile"
	"ptforge.dev/pktfile/store"
	"ptforge.dev/pktfile/store/localfs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "encode":
		return cmdEncode(args[1:], out, errOut)
	case "decode":
		return cmdDecode(args[1:], out, errOut)
	case "roundtrip":
		return cmdRoundtrip(args[1:], out, errOut)
	case "inspect":
		return cmdInspect(args[1:], out, errOut)
	case "cid":
		return cmdCID(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "pktforge: .pkt container codec CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  pktforge encode [--config <cfg.yaml>] [--debug-sibling] [--out <file.pkt>] <document>")
	fmt.Fprintln(w, "  pktforge decode [--config <cfg.yaml>] [--out <file>] <container.pkt>")
	fmt.Fprintln(w, "  pktforge roundtrip [--config <cfg.yaml>] <document>")
	fmt.Fprintln(w, "  pktforge inspect [--config <cfg.yaml>] <container.pkt>")
	fmt.Fprintln(w, "  pktforge cid <file>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - encode defaults the output name to <document> with a .pkt extension")
	fmt.Fprintln(w, "  - --debug-sibling also writes the pre-container document next to the output")
	fmt.Fprintln(w, "  - container writes are atomic: a crash never leaves a partial .pkt")
	fmt.Fprintln(w, "  - the config file may set backend order and an artifact archive directory")
}

// config is the optional YAML configuration file.
type config struct {
	// Backends is the fallback order; valid names are "reference" and
	// "builtin". Empty means the default order.
	Backends []string `yaml:"backends"`
	// Archive, when set, stores every produced artifact content-addressed
	// under this directory.
	Archive string `yaml:"archive"`
	// DebugSiblings writes the pre-container document next to each encoded
	// container, as if --debug-sibling were always given.
	DebugSiblings bool `yaml:"debug_siblings"`
}

func loadConfig(path string) (config, error) {
	var cfg config
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c config) selector() (pktfile.Selector, error) {
	if len(c.Backends) == 0 {
		return pktfile.DefaultSelector(), nil
	}
	var backends []pktfile.Backend
	for _, name := range c.Backends {
		switch name {
		case "reference":
			backends = append(backends, pktfile.NewReferenceBackend(pktfile.PT8))
		case "builtin":
			backends = append(backends, pktfile.NewBuiltinBackend(pktfile.PT8))
		default:
			return pktfile.Selector{}, fmt.Errorf("unknown backend %q", name)
		}
	}
	return pktfile.Selector{Backends: backends}, nil
}

// archivePut stores the container in the configured archive, and when
// debug siblings are on, the decoded document next to it.
func (c config) archivePut(container, document []byte, errOut io.Writer) {
	if c.Archive == "" {
		return
	}
	a, err := localfs.New(c.Archive)
	if err != nil {
		fmt.Fprintf(errOut, "archive unavailable: %v\n", err)
		return
	}
	id, err := a.Put(container)
	if err != nil {
		fmt.Fprintf(errOut, "archive put failed: %v\n", err)
		return
	}
	if c.DebugSiblings && document != nil {
		if err := a.PutSibling(id, document); err != nil {
			fmt.Fprintf(errOut, "archive sibling failed: %v\n", err)
		}
	}
}

func cmdEncode(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.SetOutput(errOut)
	cfgPath := fs.String("config", "", "YAML config file")
	outPath := fs.String("out", "", "output container path")
	debugSibling := fs.Bool("debug-sibling", false, "also write the document next to the container")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: pktforge encode [--config <cfg.yaml>] [--debug-sibling] [--out <file.pkt>] <document>")
		return 2
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return 1
	}
	sel, err := cfg.selector()
	if err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return 1
	}

	document, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read document: %v\n", err)
		return 1
	}

	container, backend, err := sel.EncodeReport(document)
	if err != nil {
		fmt.Fprintf(errOut, "encode: %v\n", err)
		return 1
	}

	target := *outPath
	if target == "" {
		target = replaceExt(fs.Arg(0), pktfile.Extension)
	}
	if err := store.WriteFileAtomic(target, container, 0o644); err != nil {
		fmt.Fprintf(errOut, "write container: %v\n", err)
		return 1
	}
	if *debugSibling || cfg.DebugSiblings {
		sibling := replaceExt(target, pktfile.DebugExtension)
		if err := store.WriteFileAtomic(sibling, document, 0o644); err != nil {
			fmt.Fprintf(errOut, "write debug sibling: %v\n", err)
			return 1
		}
	}
	cfg.archivePut(container, document, errOut)

	fmt.Fprintf(out, "%s\t%d bytes\tbackend=%s\tcid=%s\n",
		target, len(container), backend, cidutil.ArtifactIDString(container))
	return 0
}

func cmdDecode(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(errOut)
	cfgPath := fs.String("config", "", "YAML config file")
	outPath := fs.String("out", "", "output document path (default stdout)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: pktforge decode [--config <cfg.yaml>] [--out <file>] <container.pkt>")
		return 2
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return 1
	}
	sel, err := cfg.selector()
	if err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return 1
	}

	container, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read container: %v\n", err)
		return 1
	}

	document, backend, err := sel.DecodeReport(container)
	if err != nil {
		fmt.Fprintf(errOut, "decode: %v (rule %s)\n", err, pktfile.RuleID(err))
		return 1
	}

	if *outPath == "" {
		_, _ = out.Write(document)
		return 0
	}
	if err := store.WriteFileAtomic(*outPath, document, 0o644); err != nil {
		fmt.Fprintf(errOut, "write document: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "%s\t%d bytes\tbackend=%s\n", *outPath, len(document), backend)
	return 0
}

func cmdRoundtrip(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("roundtrip", flag.ContinueOnError)
	fs.SetOutput(errOut)
	cfgPath := fs.String("config", "", "YAML config file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: pktforge roundtrip [--config <cfg.yaml>] <document>")
		return 2
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return 1
	}
	sel, err := cfg.selector()
	if err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return 1
	}

	document, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read document: %v\n", err)
		return 1
	}

	container, err := sel.Encode(document)
	if err != nil {
		fmt.Fprintf(errOut, "encode: %v\n", err)
		return 1
	}
	back, err := sel.Decode(container)
	if err != nil {
		fmt.Fprintf(errOut, "decode: %v\n", err)
		return 1
	}
	if !bytes.Equal(back, document) {
		fmt.Fprintln(errOut, "round trip mismatch")
		return 1
	}
	fmt.Fprintf(out, "ok\t%d -> %d bytes\n", len(document), len(container))
	return 0
}

func cmdInspect(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(errOut)
	cfgPath := fs.String("config", "", "YAML config file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: pktforge inspect [--config <cfg.yaml>] <container.pkt>")
		return 2
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return 1
	}
	sel, err := cfg.selector()
	if err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return 1
	}

	container, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read container: %v\n", err)
		return 1
	}

	fmt.Fprintf(out, "container:\t%d bytes\n", len(container))
	fmt.Fprintf(out, "cid:\t%s\n", cidutil.ArtifactIDString(container))

	document, backend, err := sel.DecodeReport(container)
	if err != nil {
		fmt.Fprintf(out, "decodable:\tno (%v, rule %s)\n", err, pktfile.RuleID(err))
		return 1
	}
	fmt.Fprintf(out, "decodable:\tyes (backend=%s)\n", backend)
	fmt.Fprintf(out, "document:\t%d bytes\n", len(document))
	return 0
}

func cmdCID(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "usage: pktforge cid <file>")
		return 2
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "read file: %v\n", err)
		return 1
	}
	id, err := cidutil.ArtifactID(b)
	if err != nil {
		fmt.Fprintf(errOut, "cid: %v\n", err)
		return 1
	}
	fmt.Fprintln(out, id.String())
	return 0
}

func replaceExt(path, ext string) string {
	if i := strings.LastIndexByte(path, '.'); i > strings.LastIndexByte(path, '/') {
		return path[:i] + ext
	}
	return path + ext
}
