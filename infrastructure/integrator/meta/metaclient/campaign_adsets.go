package metaclient

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/pkg/errors"
	metadomain "github.com/rmonteiro89/lead-manager-api/infrastructure/integrator/meta/domain"
)

type ResponseAdSets struct {
	Data   []metadomain.AdSet `json:"data"`
	Paging metadomain.Paging  `json:"paging"`
}

// GetCampaignAdSets busca os ad sets e seus orçamentos para uma campanha.
func (c *MetaClient) GetCampaignAdSets(token, campaignID string) ([]metadomain.AdSet, error) {
	baseURL := fmt.Sprintf("%s/%s/adsets", c.Cfg.Meta.URL, campaignID)

	params := url.Values{}
	params.Add("fields", "id,name,status,daily_budget,lifetime_budget,budget_remaining")
	params.Add("access_token", token)

	body, err := c.doGet(baseURL + "?" + params.Encode())
	if err != nil {
		return nil, err
	}

	var response ResponseAdSets
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, "erro ao decodificar JSON de ad sets")
	}

	return response.Data, nil
}
