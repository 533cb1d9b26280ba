package hnsw

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"golang.org/x/exp/slices"
)

// Wire format: a stable, self-describing byte sequence.
//
//	magic      [4]byte  "HNS1"
//	M          varint
//	nodeCount  varint
//	per node, in ascending id order:
//	  maxLayer varint
//	  per layer l in 0..maxLayer:
//	    degree   varint
//	    degree * neighbor-id varint
//	checksum   uint32 (CRC32-IEEE of everything above)
//
// Item payloads and distance values are never written; the caller owns
// the items and re-supplies them, in the same order, to
// DeserializeGraph.
var wireMagic = [4]byte{'H', 'N', 'S', '1'}

func writeVarint(w io.Writer, v int) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutVarint(buf[:], int64(v))
	_, err := w.Write(buf[:n])
	return err
}

func readVarint(r io.ByteReader) (int, error) {
	v, err := binary.ReadVarint(r)
	return int(v), err
}

// SerializeGraph writes the graph's topology to a byte sequence. It
// fails with ErrGraphNotBuilt if called before BuildGraph.
func (g *Graph[T, D]) SerializeGraph() ([]byte, error) {
	if !g.built {
		return nil, ErrGraphNotBuilt
	}

	var body bytes.Buffer
	body.Write(wireMagic[:])
	if err := writeVarint(&body, g.params.M); err != nil {
		return nil, err
	}
	if err := writeVarint(&body, len(g.nodes)); err != nil {
		return nil, err
	}

	ids := make([]Id, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		n := g.nodes[id]
		if err := writeVarint(&body, n.maxLayer); err != nil {
			return nil, err
		}
		for l := 0; l <= n.maxLayer; l++ {
			neighbors := n.neighborsAt(l)
			if err := writeVarint(&body, len(neighbors)); err != nil {
				return nil, err
			}
			for _, nb := range neighbors {
				if err := writeVarint(&body, nb); err != nil {
					return nil, err
				}
			}
		}
	}

	sum := crc32.ChecksumIEEE(body.Bytes())
	if err := binary.Write(&body, binary.LittleEndian, sum); err != nil {
		return nil, err
	}

	return body.Bytes(), nil
}

// DeserializeGraph reconstructs topology from data, binding ids to
// items by position (items[i] becomes node i). It fails with
// ErrMismatchedItems if len(items) doesn't match the encoded node
// count, or ErrCorruptGraph if the byte layout is malformed or encodes
// duplicate ids, self-loops, or asymmetric edges.
//
// Only M is restored from the wire format; the other Parameters fields
// (efConstruction, the selection heuristic, ...) are left at their
// zero value — call RebindParameters to supply them before querying or
// inserting further.
func (g *Graph[T, D]) DeserializeGraph(items []T, data []byte) error {
	if len(data) < len(wireMagic)+4 {
		return fmt.Errorf("%w: truncated input", ErrCorruptGraph)
	}

	body, sumBytes := data[:len(data)-4], data[len(data)-4:]
	wantSum := binary.LittleEndian.Uint32(sumBytes)
	if crc32.ChecksumIEEE(body) != wantSum {
		return fmt.Errorf("%w: checksum mismatch", ErrCorruptGraph)
	}

	r := bufio.NewReader(bytes.NewReader(body))

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptGraph, err)
	}
	if magic != wireMagic {
		return fmt.Errorf("%w: bad magic", ErrCorruptGraph)
	}

	m, err := readVarint(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptGraph, err)
	}
	nodeCount, err := readVarint(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptGraph, err)
	}
	if nodeCount < 0 {
		return fmt.Errorf("%w: negative node count", ErrCorruptGraph)
	}
	if len(items) != nodeCount {
		return fmt.Errorf("%w: got %d items, encoded graph has %d nodes", ErrMismatchedItems, len(items), nodeCount)
	}

	nodes := make(map[Id]*Node[D], nodeCount)
	type pendingEdge struct {
		from, to Id
		layer    int
	}
	var edges []pendingEdge

	for id := 0; id < nodeCount; id++ {
		maxLayer, err := readVarint(r)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorruptGraph, err)
		}
		if maxLayer < 0 {
			return fmt.Errorf("%w: negative maxLayer for node %d", ErrCorruptGraph, id)
		}
		n := newNode[D](Id(id), maxLayer)
		nodes[Id(id)] = n

		for l := 0; l <= maxLayer; l++ {
			degree, err := readVarint(r)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrCorruptGraph, err)
			}
			if degree < 0 {
				return fmt.Errorf("%w: negative degree for node %d layer %d", ErrCorruptGraph, id, l)
			}
			for i := 0; i < degree; i++ {
				nb, err := readVarint(r)
				if err != nil {
					return fmt.Errorf("%w: %v", ErrCorruptGraph, err)
				}
				if nb == id {
					return fmt.Errorf("%w: self-loop at node %d layer %d", ErrCorruptGraph, id, l)
				}
				if n.hasNeighborAt(l, Id(nb)) {
					return fmt.Errorf("%w: duplicate neighbor %d at node %d layer %d", ErrCorruptGraph, nb, id, l)
				}
				n.addNeighborAt(l, Id(nb))
				edges = append(edges, pendingEdge{from: Id(id), to: Id(nb), layer: l})
			}
		}
	}

	for _, e := range edges {
		to, ok := nodes[e.to]
		if !ok || e.layer > to.maxLayer {
			return fmt.Errorf("%w: edge %d->%d at layer %d references an invalid node", ErrCorruptGraph, e.from, e.to, e.layer)
		}
		if !to.hasNeighborAt(e.layer, e.from) {
			return fmt.Errorf("%w: asymmetric edge %d->%d at layer %d", ErrCorruptGraph, e.from, e.to, e.layer)
		}
	}

	entry, entryLayer := Id(0), -1
	for id := 0; id < nodeCount; id++ {
		if nodes[Id(id)].maxLayer > entryLayer {
			entry, entryLayer = Id(id), nodes[Id(id)].maxLayer
		}
	}

	g.items = items
	g.nodes = nodes
	g.params = Parameters{M: m}
	g.hasEntryPoint = nodeCount > 0
	g.entryPoint = entry
	g.entryPointLayer = entryLayer
	if !g.hasEntryPoint {
		g.entryPointLayer = 0
	}
	g.built = true
	return nil
}
