package websocket

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/zermelo-games/noughts-backend/internal/entity"
)

const (
	opText  byte = 0x1
	opClose byte = 0x8
	opPing  byte = 0x9
	opPong  byte = 0xA

	finBit  byte = 0x80
	maskBit byte = 0x80
)

var errConnectionClosed = errors.New("connection closed by peer")

// frame is a single RFC 6455 frame, unmasked.
type frame struct {
	fin     bool
	opCode  byte
	payload []byte
}

// Message is the wire envelope both directions: an action name plus an
// action-specific payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload carries the request and response bodies for every action.
// Cell is a pointer so that cell 0 survives the omitempty check.
type Payload struct {
	Player *entity.Player `json:"player,omitempty"`
	Game   *entity.Game   `json:"game,omitempty"`
	Cell   *int           `json:"cell,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func (that *Server) sendMessage(bufrw *bufio.ReadWriter, action string, payload Payload) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	responseBytes, err := json.Marshal(Message{
		Action:  action,
		Payload: payloadBytes,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	if err = writeFrame(bufrw, frame{fin: true, opCode: opText, payload: responseBytes}); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	return nil
}

// readRequest assembles the next complete text message, transparently
// answering pings and reporting a clean close.
func (that *Server) readRequest(bufrw *bufio.ReadWriter) ([]byte, error) {
	var message []byte

	for {
		f, err := readFrame(bufrw)
		if err != nil {
			return nil, err
		}

		switch f.opCode {
		case opClose:
			return nil, errConnectionClosed
		case opPing:
			if err = writeFrame(bufrw, frame{fin: true, opCode: opPong, payload: f.payload}); err != nil {
				return nil, fmt.Errorf("failed to answer ping: %w", err)
			}
			continue
		case opPong:
			continue
		}

		message = append(message, f.payload...)
		if f.fin {
			return message, nil
		}
	}
}

func readFrame(bufrw *bufio.ReadWriter) (frame, error) {
	header := make([]byte, 2)
	if _, err := io.ReadFull(bufrw, header); err != nil {
		return frame{}, fmt.Errorf("failed to read frame header: %w", err)
	}

	f := frame{
		fin:    header[0]&finBit != 0,
		opCode: header[0] & 0x0f,
	}

	length := uint64(header[1] & 0x7f)
	switch length {
	case 126:
		ext := make([]byte, 2)
		if _, err := io.ReadFull(bufrw, ext); err != nil {
			return frame{}, fmt.Errorf("failed to read extended length: %w", err)
		}
		length = uint64(binary.BigEndian.Uint16(ext))
	case 127:
		ext := make([]byte, 8)
		if _, err := io.ReadFull(bufrw, ext); err != nil {
			return frame{}, fmt.Errorf("failed to read extended length: %w", err)
		}
		length = binary.BigEndian.Uint64(ext)
	}

	masked := header[1]&maskBit != 0

	var mask [4]byte
	if masked {
		if _, err := io.ReadFull(bufrw, mask[:]); err != nil {
			return frame{}, fmt.Errorf("failed to read mask: %w", err)
		}
	}

	f.payload = make([]byte, length)
	if _, err := io.ReadFull(bufrw, f.payload); err != nil {
		return frame{}, fmt.Errorf("failed to read payload: %w", err)
	}

	if masked {
		for i := range f.payload {
			f.payload[i] ^= mask[i%4]
		}
	}

	return f, nil
}

func writeFrame(bufrw *bufio.ReadWriter, f frame) error {
	length := len(f.payload)

	header := make([]byte, 2, 10)
	header[0] = f.opCode
	if f.fin {
		header[0] |= finBit
	}

	switch {
	case length < 126:
		header[1] = byte(length)
	case length < 1<<16:
		header[1] = 126
		header = binary.BigEndian.AppendUint16(header, uint16(length))
	default:
		header[1] = 127
		header = binary.BigEndian.AppendUint64(header, uint64(length))
	}

	if _, err := bufrw.Write(header); err != nil {
		return fmt.Errorf("failed to write frame header: %w", err)
	}

	if _, err := bufrw.Write(f.payload); err != nil {
		return fmt.Errorf("failed to write frame payload: %w", err)
	}

	if err := bufrw.Flush(); err != nil {
		return fmt.Errorf("failed to flush frame: %w", err)
	}

	return nil
}
