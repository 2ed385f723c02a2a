package ydoc

import (
	"errors"
	"fmt"

	"github.com/joshuapare/ydockit/internal/buf"
	"github.com/joshuapare/ydockit/pkg/jsonv"
)

// Info byte flags.
const (
	infoContentMask = 0x1f
	infoParentSub   = 0x20
	infoRightOrigin = 0x40
	infoOrigin      = 0x80
)

var errZeroLength = errors.New("zero-length struct")

// clientRefs holds the decoded structs of one client in clock order and the
// position of the next one to integrate.
type clientRefs struct {
	client  uint64
	structs []structRef
	next    int
}

func readID(r *buf.Reader) (ID, error) {
	client, err := r.ReadVarUint()
	if err != nil {
		return ID{}, err
	}
	clock, err := r.ReadVarUint()
	if err != nil {
		return ID{}, err
	}
	return ID{Client: client, Clock: clock}, nil
}

func readClientsStructRefs(r *buf.Reader, d *Doc) (map[uint64]*clientRefs, error) {
	sections, err := r.ReadLen()
	if err != nil {
		return nil, err
	}
	refs := make(map[uint64]*clientRefs)
	for i := 0; i < sections; i++ {
		count, err := r.ReadLen()
		if err != nil {
			return nil, err
		}
		client, err := r.ReadVarUint()
		if err != nil {
			return nil, err
		}
		clock, err := r.ReadVarUint()
		if err != nil {
			return nil, err
		}
		cr, ok := refs[client]
		if !ok {
			cr = &clientRefs{client: client}
			refs[client] = cr
		}
		for j := 0; j < count; j++ {
			ref, err := readStruct(r, d, ID{Client: client, Clock: clock})
			if err != nil {
				return nil, fmt.Errorf("struct %d:%d: %w", client, clock, err)
			}
			cr.structs = append(cr.structs, ref)
			clock += uint64(ref.length())
		}
	}
	return refs, nil
}

func readStruct(r *buf.Reader, d *Doc, id ID) (structRef, error) {
	info, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	switch info & infoContentMask {
	case refGC:
		n, err := r.ReadLen()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, errZeroLength
		}
		return &gc{ID: id, Length: n}, nil
	case refSkip:
		n, err := r.ReadLen()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, errZeroLength
		}
		return &skip{ID: id, Length: n}, nil
	}

	it := &Item{ID: id}
	if info&infoOrigin != 0 {
		origin, err := readID(r)
		if err != nil {
			return nil, err
		}
		it.Origin = &origin
	}
	if info&infoRightOrigin != 0 {
		rightOrigin, err := readID(r)
		if err != nil {
			return nil, err
		}
		it.RightOrigin = &rightOrigin
	}
	// Without origins the parent is encoded explicitly; otherwise it is
	// copied from the neighbours during integration.
	if info&(infoOrigin|infoRightOrigin) == 0 {
		isKey, err := r.ReadVarUint()
		if err != nil {
			return nil, err
		}
		if isKey == 1 {
			name, err := r.ReadVarString()
			if err != nil {
				return nil, err
			}
			it.parent = d.share(name)
		} else {
			parentID, err := readID(r)
			if err != nil {
				return nil, err
			}
			it.parentID = &parentID
		}
		if info&infoParentSub != 0 {
			sub, err := r.ReadVarString()
			if err != nil {
				return nil, err
			}
			it.parentSub = &sub
		}
	}
	content, err := readContent(r, info&infoContentMask)
	if err != nil {
		return nil, err
	}
	it.Content = content
	it.Length = content.Len()
	if it.Length == 0 {
		return nil, errZeroLength
	}
	return it, nil
}

func readJSONString(r *buf.Reader) (jsonv.Value, error) {
	s, err := r.ReadVarString()
	if err != nil {
		return nil, err
	}
	if s == "undefined" {
		return jsonv.Null{}, nil
	}
	v, err := jsonv.Parse([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("json content: %w", err)
	}
	return v, nil
}

func readContent(r *buf.Reader, ref uint8) (Content, error) {
	switch ref {
	case refDeleted:
		n, err := r.ReadLen()
		if err != nil {
			return nil, err
		}
		return &ContentDeleted{N: n}, nil
	case refJSON:
		n, err := r.ReadLen()
		if err != nil {
			return nil, err
		}
		c := &ContentJSON{}
		for i := 0; i < n; i++ {
			v, err := readJSONString(r)
			if err != nil {
				return nil, err
			}
			c.Values = append(c.Values, v)
		}
		return c, nil
	case refBinary:
		b, err := r.ReadVarUint8Array()
		if err != nil {
			return nil, err
		}
		return &ContentBinary{Data: append([]byte(nil), b...)}, nil
	case refString:
		s, err := r.ReadVarString()
		if err != nil {
			return nil, err
		}
		return &ContentString{Str: s}, nil
	case refEmbed:
		v, err := readJSONString(r)
		if err != nil {
			return nil, err
		}
		return &ContentEmbed{Value: v}, nil
	case refFormat:
		key, err := r.ReadVarString()
		if err != nil {
			return nil, err
		}
		v, err := readJSONString(r)
		if err != nil {
			return nil, err
		}
		return &ContentFormat{Key: key, Value: v}, nil
	case refType:
		tr, err := r.ReadVarUint()
		if err != nil {
			return nil, err
		}
		typeRef := TypeRef(tr)
		var name string
		switch typeRef {
		case TypeXMLElement, TypeXMLHook:
			if name, err = r.ReadVarString(); err != nil {
				return nil, err
			}
		case TypeArray, TypeMap, TypeText, TypeXMLFragment, TypeXMLText:
		default:
			return nil, fmt.Errorf("unknown type ref %d", tr)
		}
		return &ContentType{Type: newType(typeRef, name)}, nil
	case refAny:
		n, err := r.ReadLen()
		if err != nil {
			return nil, err
		}
		c := &ContentAny{}
		for i := 0; i < n; i++ {
			v, err := r.ReadAny()
			if err != nil {
				return nil, err
			}
			c.Values = append(c.Values, v)
		}
		return c, nil
	case refDoc:
		guid, err := r.ReadVarString()
		if err != nil {
			return nil, err
		}
		opts, err := r.ReadAny()
		if err != nil {
			return nil, err
		}
		return &ContentDoc{GUID: guid, Opts: opts}, nil
	}
	return nil, fmt.Errorf("unknown content ref %d", ref)
}

type deleteRange struct {
	client uint64
	clock  uint64
	length int
}

func readDeleteSet(r *buf.Reader) ([]deleteRange, error) {
	clients, err := r.ReadLen()
	if err != nil {
		return nil, err
	}
	var ds []deleteRange
	for i := 0; i < clients; i++ {
		client, err := r.ReadVarUint()
		if err != nil {
			return nil, err
		}
		n, err := r.ReadLen()
		if err != nil {
			return nil, err
		}
		for j := 0; j < n; j++ {
			clock, err := r.ReadVarUint()
			if err != nil {
				return nil, err
			}
			length, err := r.ReadLen()
			if err != nil {
				return nil, err
			}
			ds = append(ds, deleteRange{client: client, clock: clock, length: length})
		}
	}
	return ds, nil
}
