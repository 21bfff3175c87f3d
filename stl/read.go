package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const triSize = 50

var (
	errNoVertices = errors.New("facet has fewer than 3 vertices")
	errNoFacets   = errors.New("ASCII STL has no facets")
)

// Read reads all triangles from a binary or ASCII STL stream.
func Read(r io.Reader) ([]Tri, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ReadAll: %v", err)
	}

	var count uint32
	var fits bool
	if len(buf) >= headerSize+4 {
		count = binary.LittleEndian.Uint32(buf[headerSize:])
		want := uint64(headerSize+4) + uint64(count)*triSize
		if uint64(len(buf)) == want {
			return readBinary(buf[headerSize+4:], int(count))
		}
		fits = count > 0 && uint64(len(buf)) > want
	}

	if bytes.HasPrefix(bytes.TrimSpace(buf), []byte("solid")) {
		tris, err := readASCII(bytes.NewReader(buf))
		if err == nil && len(tris) == 0 {
			err = errNoFacets
		}
		if err == nil {
			return tris, nil
		}
		// Binary files often start with "solid" too, and some
		// exporters pad them past the last triangle.
		if fits {
			return readBinary(buf[headerSize+4:headerSize+4+int(count)*triSize], int(count))
		}
		return nil, err
	}
	return nil, errors.New("not a binary or ASCII STL file")
}

func readBinary(buf []byte, count int) ([]Tri, error) {
	tris := make([]Tri, count)
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, tris); err != nil {
		return nil, fmt.Errorf("binary.Read: %v", err)
	}
	return tris, nil
}

func readASCII(r io.Reader) ([]Tri, error) {
	var (
		tris    []Tri
		cur     Tri
		nv      int
		lineNum int
	)
	s := bufio.NewScanner(r)
	for s.Scan() {
		lineNum++
		fields := strings.Fields(s.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "facet":
			cur, nv = Tri{}, 0
			if len(fields) == 5 && fields[1] == "normal" {
				n, err := parseVec(fields[2:])
				if err != nil {
					return nil, fmt.Errorf("line %v: %v", lineNum, err)
				}
				cur.N = n
			}
		case "vertex":
			if len(fields) != 4 {
				return nil, fmt.Errorf("line %v: malformed vertex", lineNum)
			}
			v, err := parseVec(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %v: %v", lineNum, err)
			}
			switch nv {
			case 0:
				cur.V1 = v
			case 1:
				cur.V2 = v
			case 2:
				cur.V3 = v
			default:
				return nil, fmt.Errorf("line %v: facet has more than 3 vertices", lineNum)
			}
			nv++
		case "endfacet":
			if nv != 3 {
				return nil, fmt.Errorf("line %v: %v", lineNum, errNoVertices)
			}
			tris = append(tris, cur)
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("scan: %v", err)
	}
	return tris, nil
}

func parseVec(fields []string) ([3]float32, error) {
	var v [3]float32
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return v, err
		}
		v[i] = float32(x)
	}
	return v, nil
}
