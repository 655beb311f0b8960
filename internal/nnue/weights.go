package nnue

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Weight file format constants
const (
	MagicNumber = 0x46524B53 // "FRKS" - Feature-based RKISS Stockfish-like format
	Version     = 1
)

// FileHeader is the header of the weight file.
type FileHeader struct {
	Magic      uint32
	Version    uint32
	InputWidth uint32 // must equal this build's FeatureWidth (HalfKP vs HalfKA-single)
	L1Size     uint32
	L2Size     uint32
}

// LoadWeights loads network weights from a binary file.
// File format:
//   - Header: Magic (4 bytes), Version (4 bytes), InputWidth (4 bytes), L1Size (4 bytes), L2Size (4 bytes)
//   - L1Weights: FeatureWidth * L1Size * int16
//   - L1Bias: L1Size * int16
//   - PSQTWeights: FeatureWidth * int32
//   - PSQTBias: int32
//   - L2Weights: L2Size * (L1Size*2) * int8, output-neuron-major
//   - L2Bias: L2Size * int32
//   - OutputWeights: L2Size * int8
//   - OutputBias: int32
func (n *Network) LoadWeights(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open weights file: %w", err)
	}
	defer f.Close()

	// Read header
	var header FileHeader
	if err := binary.Read(f, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	// Validate header
	if header.Magic != MagicNumber {
		return fmt.Errorf("invalid magic number: expected %x, got %x", MagicNumber, header.Magic)
	}
	if header.Version != Version {
		return fmt.Errorf("unsupported version: expected %d, got %d", Version, header.Version)
	}
	if header.InputWidth != FeatureWidth {
		return fmt.Errorf("input width mismatch: this build expects %d (wrong HalfKP/HalfKA-single build tag?), file has %d", FeatureWidth, header.InputWidth)
	}
	if header.L1Size != L1Size {
		return fmt.Errorf("L1 size mismatch: expected %d, got %d", L1Size, header.L1Size)
	}
	if header.L2Size != L2Size {
		return fmt.Errorf("L2 size mismatch: expected %d, got %d", L2Size, header.L2Size)
	}

	// Read L1 weights
	for i := 0; i < FeatureWidth; i++ {
		if err := binary.Read(f, binary.LittleEndian, &n.L1Weights[i]); err != nil {
			return fmt.Errorf("failed to read L1 weights at %d: %w", i, err)
		}
	}

	// Read L1 bias
	if err := binary.Read(f, binary.LittleEndian, &n.L1Bias); err != nil {
		return fmt.Errorf("failed to read L1 bias: %w", err)
	}

	// Read PSQT weights and bias
	if err := binary.Read(f, binary.LittleEndian, &n.PSQTWeights); err != nil {
		return fmt.Errorf("failed to read PSQT weights: %w", err)
	}
	if err := binary.Read(f, binary.LittleEndian, &n.PSQTBias); err != nil {
		return fmt.Errorf("failed to read PSQT bias: %w", err)
	}

	// Read L2 weights
	for i := 0; i < L2Size; i++ {
		if err := binary.Read(f, binary.LittleEndian, &n.L2Weights[i]); err != nil {
			return fmt.Errorf("failed to read L2 weights at %d: %w", i, err)
		}
	}

	// Read L2 bias
	if err := binary.Read(f, binary.LittleEndian, &n.L2Bias); err != nil {
		return fmt.Errorf("failed to read L2 bias: %w", err)
	}

	// Read output weights
	if err := binary.Read(f, binary.LittleEndian, &n.OutputWeights); err != nil {
		return fmt.Errorf("failed to read output weights: %w", err)
	}

	// Read output bias
	if err := binary.Read(f, binary.LittleEndian, &n.OutputBias); err != nil {
		return fmt.Errorf("failed to read output bias: %w", err)
	}

	// A file longer than this layout is the wrong size too.
	var extra [1]byte
	if k, _ := f.Read(extra[:]); k != 0 {
		return fmt.Errorf("weights file has trailing data after the output bias")
	}

	return nil
}

// SaveWeights saves network weights to a binary file.
func (n *Network) SaveWeights(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create weights file: %w", err)
	}
	defer f.Close()

	// Write header
	header := FileHeader{
		Magic:      MagicNumber,
		Version:    Version,
		InputWidth: FeatureWidth,
		L1Size:     L1Size,
		L2Size:     L2Size,
	}
	if err := binary.Write(f, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// Write L1 weights
	for i := 0; i < FeatureWidth; i++ {
		if err := binary.Write(f, binary.LittleEndian, &n.L1Weights[i]); err != nil {
			return fmt.Errorf("failed to write L1 weights at %d: %w", i, err)
		}
	}

	// Write L1 bias
	if err := binary.Write(f, binary.LittleEndian, &n.L1Bias); err != nil {
		return fmt.Errorf("failed to write L1 bias: %w", err)
	}

	// Write PSQT weights and bias
	if err := binary.Write(f, binary.LittleEndian, &n.PSQTWeights); err != nil {
		return fmt.Errorf("failed to write PSQT weights: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, &n.PSQTBias); err != nil {
		return fmt.Errorf("failed to write PSQT bias: %w", err)
	}

	// Write L2 weights
	for i := 0; i < L2Size; i++ {
		if err := binary.Write(f, binary.LittleEndian, &n.L2Weights[i]); err != nil {
			return fmt.Errorf("failed to write L2 weights at %d: %w", i, err)
		}
	}

	// Write L2 bias
	if err := binary.Write(f, binary.LittleEndian, &n.L2Bias); err != nil {
		return fmt.Errorf("failed to write L2 bias: %w", err)
	}

	// Write output weights
	if err := binary.Write(f, binary.LittleEndian, &n.OutputWeights); err != nil {
		return fmt.Errorf("failed to write output weights: %w", err)
	}

	// Write output bias
	if err := binary.Write(f, binary.LittleEndian, &n.OutputBias); err != nil {
		return fmt.Errorf("failed to write output bias: %w", err)
	}

	return nil
}

// LoadWeightsFromReader loads network weights from an io.Reader.
func (n *Network) LoadWeightsFromReader(r io.Reader) error {
	// Read header
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	// Validate header
	if header.Magic != MagicNumber {
		return fmt.Errorf("invalid magic number: expected %x, got %x", MagicNumber, header.Magic)
	}
	if header.Version != Version {
		return fmt.Errorf("unsupported version: expected %d, got %d", Version, header.Version)
	}
	if header.InputWidth != FeatureWidth {
		return fmt.Errorf("input width mismatch: this build expects %d (wrong HalfKP/HalfKA-single build tag?), file has %d", FeatureWidth, header.InputWidth)
	}

	// Read L1 weights
	for i := 0; i < FeatureWidth; i++ {
		if err := binary.Read(r, binary.LittleEndian, &n.L1Weights[i]); err != nil {
			return fmt.Errorf("failed to read L1 weights at %d: %w", i, err)
		}
	}

	// Read L1 bias
	if err := binary.Read(r, binary.LittleEndian, &n.L1Bias); err != nil {
		return fmt.Errorf("failed to read L1 bias: %w", err)
	}

	// Read PSQT weights and bias
	if err := binary.Read(r, binary.LittleEndian, &n.PSQTWeights); err != nil {
		return fmt.Errorf("failed to read PSQT weights: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &n.PSQTBias); err != nil {
		return fmt.Errorf("failed to read PSQT bias: %w", err)
	}

	// Read L2 weights
	for i := 0; i < L2Size; i++ {
		if err := binary.Read(r, binary.LittleEndian, &n.L2Weights[i]); err != nil {
			return fmt.Errorf("failed to read L2 weights at %d: %w", i, err)
		}
	}

	// Read L2 bias
	if err := binary.Read(r, binary.LittleEndian, &n.L2Bias); err != nil {
		return fmt.Errorf("failed to read L2 bias: %w", err)
	}

	// Read output weights
	if err := binary.Read(r, binary.LittleEndian, &n.OutputWeights); err != nil {
		return fmt.Errorf("failed to read output weights: %w", err)
	}

	// Read output bias
	if err := binary.Read(r, binary.LittleEndian, &n.OutputBias); err != nil {
		return fmt.Errorf("failed to read output bias: %w", err)
	}

	return nil
}
