// Package trace loads the per-core memory-reference files a simulation run replays.
package trace

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/arch-sim/mesicache/core"
)

// Load reads "<prefix>_proc<i>.trace" for i in 0..core.NumCores-1 and returns the
// parsed reference sequence for each core. A missing or unopenable file is fatal and
// names the path; a line that fails to parse is silently skipped.
func Load(prefix string) ([core.NumCores][]core.MemRef, error) {
	var refs [core.NumCores][]core.MemRef

	for i := 0; i < core.NumCores; i++ {
		path := fmt.Sprintf("%s_proc%d.trace", prefix, i)
		f, err := os.Open(path)
		if err != nil {
			return refs, fmt.Errorf("trace: opening %s: %w", path, err)
		}

		parsed, err := parseFile(f)
		closeErr := f.Close()
		if err != nil {
			return refs, fmt.Errorf("trace: reading %s: %w", path, err)
		}
		if closeErr != nil {
			return refs, fmt.Errorf("trace: closing %s: %w", path, closeErr)
		}
		refs[i] = parsed
	}

	return refs, nil
}

func parseFile(f *os.File) ([]core.MemRef, error) {
	var refs []core.MemRef
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		ref, ok := parseLine(line)
		if !ok {
			continue
		}
		refs = append(refs, ref)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return refs, nil
}

func parseLine(line string) (core.MemRef, bool) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return core.MemRef{}, false
	}

	var isWrite bool
	switch fields[0] {
	case "R":
		isWrite = false
	case "W":
		isWrite = true
	default:
		return core.MemRef{}, false
	}

	addrField := fields[1]
	base := 10
	if strings.HasPrefix(addrField, "0x") || strings.HasPrefix(addrField, "0X") {
		addrField = addrField[2:]
		base = 16
	}
	addr, err := strconv.ParseUint(addrField, base, 32)
	if err != nil {
		return core.MemRef{}, false
	}

	return core.MemRef{IsWrite: isWrite, Address: uint32(addr)}, true
}
