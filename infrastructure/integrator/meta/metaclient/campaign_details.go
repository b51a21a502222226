package metaclient

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/pkg/errors"
	metadomain "github.com/rmonteiro89/lead-manager-api/infrastructure/integrator/meta/domain"
)

// GetCampaignDetails busca status, effective_status e issues de uma campanha.
func (c *MetaClient) GetCampaignDetails(token, campaignID string) (*metadomain.CampaignDetails, error) {
	baseURL := fmt.Sprintf("%s/%s", c.Cfg.Meta.URL, campaignID)

	params := url.Values{}
	params.Add("fields", "id,name,status,effective_status,issues_info")
	params.Add("access_token", token)

	body, err := c.doGet(baseURL + "?" + params.Encode())
	if err != nil {
		return nil, err
	}

	var details metadomain.CampaignDetails
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, errors.Wrap(err, "erro ao decodificar JSON de detalhes da campanha")
	}

	return &details, nil
}
