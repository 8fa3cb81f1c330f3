// SPDX-License-Identifier: MIT

package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

var profileHeader = []string{"x", "z", "gz"}

// profile is one gravity line: observation coordinates and gz in mGal.
type profile struct {
	X, Z, Gz []float64
}

// readProfile parses "x,z,gz" rows. A header row is optional; blank lines
// and lines starting with '#' are skipped.
func readProfile(r io.Reader) (profile, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = len(profileHeader)
	cr.TrimLeadingSpace = true

	var p profile
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return profile{}, fmt.Errorf("read profile: %w", err)
		}
		if line == 1 && rec[0] == profileHeader[0] {
			continue
		}

		var vals [3]float64
		for i, field := range rec {
			if vals[i], err = strconv.ParseFloat(field, 64); err != nil {
				return profile{}, fmt.Errorf("read profile: record %d, column %q: %w", line, profileHeader[i], err)
			}
		}
		p.X = append(p.X, vals[0])
		p.Z = append(p.Z, vals[1])
		p.Gz = append(p.Gz, vals[2])
	}
	if len(p.X) == 0 {
		return profile{}, errors.New("read profile: no data rows")
	}

	return p, nil
}

// readProfileFile reads path, or stdin when path is "-".
func readProfileFile(path string, stdin io.Reader) (profile, error) {
	if path == "-" {
		return readProfile(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return profile{}, err
	}
	defer f.Close()

	p, err := readProfile(f)
	if err != nil {
		return profile{}, fmt.Errorf("%s: %w", path, err)
	}

	return p, nil
}

// writeProfile writes p with a header row.
func writeProfile(w io.Writer, p profile) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(profileHeader); err != nil {
		return err
	}
	for i := range p.X {
		rec := []string{
			strconv.FormatFloat(p.X[i], 'g', -1, 64),
			strconv.FormatFloat(p.Z[i], 'g', -1, 64),
			strconv.FormatFloat(p.Gz[i], 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}
