package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"time"
)

const sessionFormatVersionCurrent = 1

// Encode serializes s into the compact registry format:
// version(1) idLen(1) id identifierLen(2) identifier startUnixMilli(8).
func Encode(s *Session) ([]byte, error) {
	if s == nil {
		return nil, errors.New("nil session")
	}

	var buf bytes.Buffer

	buf.WriteByte(sessionFormatVersionCurrent)

	if len(s.ID) > 255 {
		return nil, errors.New("session id too long")
	}
	buf.WriteByte(byte(len(s.ID)))
	buf.WriteString(s.ID)

	if len(s.Identifier) > 65535 {
		return nil, errors.New("identifier too long")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(s.Identifier))); err != nil {
		return nil, err
	}
	buf.WriteString(s.Identifier)

	if err := binary.Write(&buf, binary.BigEndian, s.StartTime.UnixMilli()); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func Decode(data []byte) (*Session, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != sessionFormatVersionCurrent {
		return nil, errors.New("unsupported session version")
	}

	idLen, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	id := make([]byte, idLen)
	if _, err := io.ReadFull(reader, id); err != nil {
		return nil, err
	}

	var identLen uint16
	if err := binary.Read(reader, binary.BigEndian, &identLen); err != nil {
		return nil, err
	}
	ident := make([]byte, identLen)
	if _, err := io.ReadFull(reader, ident); err != nil {
		return nil, err
	}

	var startMilli int64
	if err := binary.Read(reader, binary.BigEndian, &startMilli); err != nil {
		return nil, err
	}

	if reader.Len() != 0 {
		return nil, errors.New("trailing session bytes")
	}

	return &Session{
		ID:         string(id),
		Identifier: string(ident),
		StartTime:  time.UnixMilli(startMilli),
	}, nil
}
