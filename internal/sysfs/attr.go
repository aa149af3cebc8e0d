// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package sysfs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// MaxAttrSize bounds every attribute read. Content that fills the buffer is malformed.
const MaxAttrSize = 4096

// ReadText reads an attribute in one bounded read and strips one trailing newline.
// Empty content is a valid value: md/dev-*/bad_blocks reads empty while a member
// has no bad blocks.
func ReadText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", ioError("open", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	buf := make([]byte, MaxAttrSize)
	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", ioError("read", path, err)
	}
	if n >= len(buf) {
		return "", parseError(path, fmt.Errorf("content exceeds %d bytes", MaxAttrSize))
	}
	return strings.TrimSuffix(string(buf[:n]), "\n"), nil
}

// OpenAttr opens an attribute read-write, falling back to read-only.
func OpenAttr(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err == nil {
		return f, nil
	}
	f, err = os.Open(path)
	if err != nil {
		return nil, ioError("open", path, err)
	}
	return f, nil
}

// ReadBounded rewinds an open attribute and reads at most size-1 bytes from it. The
// raw content, trailing newline included, is returned. Unlike ReadText, empty
// content is malformed: the attributes read through open handles always carry a
// value.
func ReadBounded(f *os.File, size int) (string, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", ioError("seek", f.Name(), err)
	}
	buf := make([]byte, size)
	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", ioError("read", f.Name(), err)
	}
	if n <= 0 || n >= size {
		return "", parseError(f.Name(), fmt.Errorf("read %d bytes into %d byte buffer", n, size))
	}
	return string(buf[:n]), nil
}

// ReadU64 reads a single number from an open attribute.
func ReadU64(f *os.File) (uint64, error) {
	s, err := ReadBounded(f, 50)
	if err != nil {
		return 0, err
	}
	v, err := ParseU64(s)
	if err != nil {
		return 0, parseError(f.Name(), err)
	}
	return v, nil
}

// ReadTwo reads a two-number attribute from an open file, see ParseTwoNumbers.
func ReadTwo(f *os.File) (first, second uint64, count int, err error) {
	s, err := ReadBounded(f, 80)
	if err != nil {
		return 0, 0, 0, err
	}
	first, second, count, err = ParseTwoNumbers(s)
	if err != nil {
		return 0, 0, 0, parseError(f.Name(), err)
	}
	return first, second, count, nil
}

// WriteExact issues exactly one write(2). A short write is reported as
// KindPartialWrite so that callers can decide whether the kernel's partial
// consumption is acceptable for the attribute at hand.
func WriteExact(f *os.File, data []byte) error {
	rc, err := f.SyscallConn()
	if err != nil {
		return ioError("write", f.Name(), err)
	}
	var (
		n    int
		werr error
	)
	if err := rc.Write(func(fd uintptr) bool {
		for {
			n, werr = unix.Write(int(fd), data)
			if werr != unix.EINTR {
				return true
			}
		}
	}); err != nil {
		return ioError("write", f.Name(), err)
	}
	if werr != nil {
		return &Error{Kind: KindIO, Op: "write", Path: f.Name(), Err: werr}
	}
	if n != len(data) {
		return &Error{Kind: KindPartialWrite, Op: "write", Path: f.Name(), Written: n}
	}
	return nil
}

// WriteAttr opens path write-only and writes value to it.
func WriteAttr(path, value string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return ioError("open", path, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return WriteExact(f, []byte(value))
}

// WriteUint writes v in decimal.
func WriteUint(path string, v uint64) error {
	return WriteAttr(path, strconv.FormatUint(v, 10))
}

// WriteInt writes v in signed decimal.
func WriteInt(path string, v int64) error {
	return WriteAttr(path, strconv.FormatInt(v, 10))
}
