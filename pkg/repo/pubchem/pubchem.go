package pubchem

import (
	"context"
	"net/http"
	"time"

	resty "github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/scienceol/chemstock/internal/config"
	"github.com/scienceol/chemstock/pkg/common/code"
	"github.com/scienceol/chemstock/pkg/middleware/logger"
	"github.com/scienceol/chemstock/pkg/repo"
)

const (
	propertyPath = "/rest/pug/compound/name/{name}/property/{props}/JSON"
	properties   = "Title,MolecularFormula,MolecularWeight,IUPACName"
)

type pubchemImpl struct {
	client *resty.Client
}

func New() repo.PubChemRepo {
	conf := config.Global().Lookup
	return NewWithAddr(conf.PubChemAddr, conf.Timeout)
}

func NewWithAddr(addr string, timeout time.Duration) repo.PubChemRepo {
	return &pubchemImpl{
		client: resty.New().
			SetTimeout(timeout).
			SetBaseURL(addr).
			SetHeader("Accept", "application/json"),
	}
}

func (p *pubchemImpl) properties(ctx context.Context, name string) ([]gjson.Result, error) {
	res, err := p.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"name":  name,
			"props": properties,
		}).
		Get(propertyPath)
	if err != nil {
		logger.Warnf(ctx, "request PubChem properties name: %s, err: %+v", name, err)
		return nil, code.RPCHttpErr.WithErr(err)
	}

	switch res.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, code.RPCHttpCodeErr.WithMsgf("PubChem property query failed: status %d", res.StatusCode())
	}

	return gjson.GetBytes(res.Body(), "PropertyTable.Properties").Array(), nil
}

func toCompound(props gjson.Result) *repo.CompoundInfo {
	name := props.Get("Title").String()
	if name == "" {
		name = props.Get("IUPACName").String()
	}
	return &repo.CompoundInfo{
		Name:    name,
		Formula: props.Get("MolecularFormula").String(),
		// PubChem reports the weight as a string, gjson parses both forms
		MolecularWeight: props.Get("MolecularWeight").Float(),
	}
}

func (p *pubchemImpl) GetCompoundByCAS(ctx context.Context, cas string) (*repo.CompoundInfo, error) {
	rows, err := p.properties(ctx, cas)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return toCompound(rows[0]), nil
}

func (p *pubchemImpl) SearchByName(ctx context.Context, q string, limit int) ([]*repo.CompoundInfo, error) {
	rows, err := p.properties(ctx, q)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	datas := make([]*repo.CompoundInfo, 0, len(rows))
	for _, row := range rows {
		info := toCompound(row)
		if info.Name == "" {
			info.Name = q
		}
		datas = append(datas, info)
	}
	return datas, nil
}
