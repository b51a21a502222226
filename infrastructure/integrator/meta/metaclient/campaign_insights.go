package metaclient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	metadomain "github.com/rmonteiro89/lead-manager-api/infrastructure/integrator/meta/domain"
)

type ResponseCampaignInsights struct {
	Data   []metadomain.InsightRow `json:"data"`
	Paging metadomain.Paging       `json:"paging"`
}

// GetCampaignInsights busca as linhas de insights de uma campanha no período.
// increment=1 retorna uma linha por dia; 0 delega o agrupamento ao provedor.
func (c *MetaClient) GetCampaignInsights(
	token, campaignID string,
	since, until time.Time,
	increment int,
) ([]metadomain.InsightRow, error) {
	baseURL := fmt.Sprintf("%s/%s/insights", c.Cfg.Meta.URL, campaignID)

	timeRange := fmt.Sprintf("{\"since\":\"%s\",\"until\":\"%s\"}", since.Format(time.DateOnly), until.Format(time.DateOnly))

	params := url.Values{}
	params.Add("fields", "account_id,campaign_id,spend,impressions,clicks,actions")
	params.Add("time_range", timeRange)
	if increment > 0 {
		params.Add("time_increment", strconv.Itoa(increment))
	}
	params.Add("access_token", token)

	body, err := c.doGet(baseURL + "?" + params.Encode())
	if err != nil {
		return nil, err
	}

	var response ResponseCampaignInsights
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, "erro ao decodificar JSON de insights da campanha")
	}

	return response.Data, nil
}
