// Package stl provides a streaming binary STL file writer and an STL reader.
package stl

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	headerSize = 80
	bufSize    = 10000
)

// Client is a streaming binary STL file writer client.
type Client struct {
	wg sync.WaitGroup // ensures file is closed
	ch chan Tri

	mu  sync.RWMutex
	err error
}

// Tri represents an STL triangle.
type Tri struct {
	// Normal plus three vertex triplets: [3]float{x,y,z}
	N, V1, V2, V3 [3]float32
	_             uint16 // unused attribute byte count
}

// NewTri returns the triangle a,b,c with its right-handed facet normal.
func NewTri(a, b, c mgl64.Vec3) *Tri {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() > 0 {
		n = n.Normalize()
	}
	return &Tri{N: vec32(n), V1: vec32(a), V2: vec32(b), V3: vec32(c)}
}

func vec32(v mgl64.Vec3) [3]float32 {
	return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}

// New creates a new streaming binary STL file writer.
func New(filename string) (*Client, error) {
	out, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("Create: %v", err)
	}
	// Write header
	header := struct {
		_ [headerSize]uint8
		_ uint32 // count will be overwritten on channel close.
	}{}
	if err := binary.Write(out, binary.LittleEndian, &header); err != nil {
		out.Close()
		return nil, fmt.Errorf("error writing header: %v", err)
	}

	c := &Client{
		ch: make(chan Tri, bufSize),
	}
	c.start(out)
	return c, nil
}

func (c *Client) start(out writeSeekCloser) {
	c.wg.Add(1)
	go func() {
		err := writer(out, c.ch)
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		c.wg.Done()
	}()
}

// Write writes a triangle to the STL file.
func (c *Client) Write(t *Tri) error {
	c.ch <- *t
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Close finalizes the STL file.
func (c *Client) Close() error {
	close(c.ch)
	c.wg.Wait()
	return c.err
}

type writeSeekCloser interface {
	io.Writer
	io.Seeker
	io.Closer
}

func writer(out writeSeekCloser, ch <-chan Tri) error {
	var count uint32
	var err error
	for t := range ch {
		if err != nil {
			continue // drain so that Write never blocks
		}
		if werr := binary.Write(out, binary.LittleEndian, &t); werr != nil {
			err = fmt.Errorf("write triangle %#v: %v", t, werr)
			continue
		}
		count++
	}
	if err != nil {
		out.Close()
		return err
	}

	if _, err := out.Seek(headerSize, io.SeekStart); err != nil {
		out.Close()
		return fmt.Errorf("seek: %v", err)
	}

	if err := binary.Write(out, binary.LittleEndian, &count); err != nil {
		out.Close()
		return fmt.Errorf("write count %v: %v", count, err)
	}

	return out.Close()
}
