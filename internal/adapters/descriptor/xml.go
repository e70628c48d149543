package descriptor

import (
	"bytes"
	"encoding/xml"

	"go.trai.ch/apilevel/internal/core/domain"
	"go.trai.ch/zerr"
)

type xmlAPI struct {
	XMLName xml.Name   `xml:"api"`
	Classes []xmlClass `xml:"class"`
}

type xmlClass struct {
	Name       string      `xml:"name,attr"`
	Since      string      `xml:"since,attr"`
	Deprecated string      `xml:"deprecated,attr"`
	Removed    string      `xml:"removed,attr"`
	Extends    []xmlRef    `xml:"extends"`
	Implements []xmlRef    `xml:"implements"`
	Methods    []xmlMember `xml:"method"`
	Fields     []xmlMember `xml:"field"`
}

type xmlRef struct {
	Name    string `xml:"name,attr"`
	Since   string `xml:"since,attr"`
	Removed string `xml:"removed,attr"`
}

type xmlMember struct {
	Name       string `xml:"name,attr"`
	Since      string `xml:"since,attr"`
	Deprecated string `xml:"deprecated,attr"`
	Removed    string `xml:"removed,attr"`
}

func decodeXML(data []byte) ([]domain.ClassEntry, error) {
	var api xmlAPI
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&api); err != nil {
		return nil, zerr.Wrap(err, domain.ErrDescriptorInvalid.Error())
	}

	classes := make([]domain.ClassEntry, 0, len(api.Classes))
	for i := range api.Classes {
		c, err := api.Classes[i].entry()
		if err != nil {
			return nil, zerr.With(err, "class", api.Classes[i].Name)
		}
		classes = append(classes, c)
	}
	return classes, nil
}

func (x *xmlClass) entry() (domain.ClassEntry, error) {
	if x.Name == "" {
		return domain.ClassEntry{}, zerr.Wrap(domain.ErrDescriptorInvalid, "class without name")
	}

	var err error
	c := domain.ClassEntry{Name: domain.InternalName(x.Name)}
	if c.Since, err = parseLevel(x.Since); err != nil {
		return c, err
	}
	if c.Since == domain.NoLevel {
		c.Since = 1
	}
	if c.Deprecated, err = parseLevel(x.Deprecated); err != nil {
		return c, err
	}
	if c.Removed, err = parseLevel(x.Removed); err != nil {
		return c, err
	}

	if c.Superclass, err = currentSuperclass(x.Extends); err != nil {
		return c, err
	}

	for _, ref := range x.Implements {
		if ref.Removed != "" {
			continue
		}
		e, err := ref.edge()
		if err != nil {
			return c, err
		}
		c.Interfaces = append(c.Interfaces, e)
	}

	for _, m := range x.Fields {
		entry, err := m.entry(m.Name)
		if err != nil {
			return c, err
		}
		c.Members = append(c.Members, entry)
	}
	for _, m := range x.Methods {
		entry, err := m.entry(domain.NormalizeMethodKey(m.Name))
		if err != nil {
			return c, err
		}
		c.Members = append(c.Members, entry)
	}
	return c, nil
}

// currentSuperclass picks the superclass in effect today out of the extends
// history: edges that were later removed lose, then the highest level wins.
func currentSuperclass(refs []xmlRef) (domain.Edge, error) {
	var (
		best        domain.Edge
		bestRemoved = true
	)
	for i, ref := range refs {
		e, err := ref.edge()
		if err != nil {
			return domain.Edge{}, err
		}
		removed := ref.Removed != ""
		if i == 0 || (bestRemoved && !removed) || (bestRemoved == removed && e.Since >= best.Since) {
			best, bestRemoved = e, removed
		}
	}
	return best, nil
}

func (r xmlRef) edge() (domain.Edge, error) {
	since, err := parseLevel(r.Since)
	if err != nil {
		return domain.Edge{}, err
	}
	return domain.Edge{Name: domain.InternalName(r.Name), Since: since}, nil
}

func (m xmlMember) entry(key string) (domain.MemberEntry, error) {
	if key == "" {
		return domain.MemberEntry{}, zerr.Wrap(domain.ErrDescriptorInvalid, "member without name")
	}
	var err error
	e := domain.MemberEntry{Key: key}
	if e.Since, err = parseLevel(m.Since); err != nil {
		return e, err
	}
	if e.Deprecated, err = parseLevel(m.Deprecated); err != nil {
		return e, err
	}
	if e.Removed, err = parseLevel(m.Removed); err != nil {
		return e, err
	}
	return e, nil
}
